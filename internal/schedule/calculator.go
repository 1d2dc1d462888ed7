package schedule

import (
	"sort"
	"time"
)

// PlanInput is the flat plan handed to Calculate: ordered phases with
// percentage weights, stages, and weighted activities, plus the project date
// window and calendar.
type PlanInput struct {
	Start    time.Time
	End      time.Time
	Calendar Calendar
	Phases   []PhaseInput
}

// ID on every node is an opaque caller key echoed unchanged on the scheduled
// output. Names are only guaranteed unique per phase batch (dependency refs),
// so callers persisting results should match on ID, not Name.
type PhaseInput struct {
	ID         string
	Name       string
	Order      int
	Percentage float64 // percentage of the total window, expected to sum to 100
	Stages     []StageInput
}

type StageInput struct {
	ID         string
	Name       string
	Order      int
	Activities []ActivityInput
}

type ActivityInput struct {
	ID           string
	Name         string
	Order        int
	Weight       float64
	DurationDays *int     // fixed duration; nil activities split the remaining budget by weight
	DependsOn    []string // by-name, resolved only within the owning phase's activity batch
}

// ScheduledPlan mirrors PlanInput with concrete dates attached at every level.
type ScheduledPlan struct {
	Phases []ScheduledPhase
}

type ScheduledPhase struct {
	ID     string
	Name   string
	Start  time.Time
	End    time.Time
	Days   int
	Stages []ScheduledStage
}

type ScheduledStage struct {
	ID         string
	Name       string
	Start      time.Time
	End        time.Time
	Activities []ScheduledActivity
}

type ScheduledActivity struct {
	ID    string
	Name  string
	Stage string
	Start time.Time
	End   time.Time
	Days  int
}

// Calculate turns a weighted plan breakdown into concrete start/end dates.
//
// Phases run sequentially over the project window, each taking its share of
// the total day count (percentage basis 100, last phase absorbing drift).
// Within a phase, fixed-duration activities reserve their days outright and
// the remaining budget is split by weight among the flexible ones; activities
// are then scheduled in topological order, dependent activities starting the
// day after their latest dependency ends. Phase windows are authoritative;
// stage dates are derived as the min/max of their own activities. Phases with
// no stages and stages with no activities are skipped in the output.
func Calculate(in PlanInput) ScheduledPlan {
	cal := in.Calendar
	totalDays := cal.CountDays(in.Start, in.End)
	if totalDays < 1 {
		totalDays = 1
	}

	phases := make([]PhaseInput, len(in.Phases))
	copy(phases, in.Phases)
	sort.SliceStable(phases, func(i, j int) bool { return phases[i].Order < phases[j].Order })

	weights := make([]float64, len(phases))
	for i, p := range phases {
		weights[i] = p.Percentage
	}
	phaseDays := AllocateDays(weights, totalDays, 100)

	var out ScheduledPlan
	cursor := in.Start
	for i, phase := range phases {
		phaseStart := cal.NextWorkingDay(cursor)
		phaseEnd := cal.Advance(phaseStart, phaseDays[i]-1)
		cursor = phaseEnd.AddDate(0, 0, 1)

		if len(phase.Stages) == 0 {
			continue
		}

		scheduled := schedulePhase(phase, phaseStart, phaseDays[i], cal)
		scheduled.Start = phaseStart
		scheduled.End = phaseEnd
		scheduled.Days = phaseDays[i]
		out.Phases = append(out.Phases, scheduled)
	}
	return out
}

// phaseActivity tracks an activity's owning stage through the flattened
// per-phase scheduling batch.
type phaseActivity struct {
	ActivityInput
	stage string
}

func schedulePhase(phase PhaseInput, phaseStart time.Time, phaseDays int, cal Calendar) ScheduledPhase {
	stages := make([]StageInput, len(phase.Stages))
	copy(stages, phase.Stages)
	sort.SliceStable(stages, func(i, j int) bool { return stages[i].Order < stages[j].Order })

	// Flatten the phase's activities into one scheduling batch. Dependencies
	// resolve only against names in this batch.
	var batch []phaseActivity
	for _, st := range stages {
		acts := make([]ActivityInput, len(st.Activities))
		copy(acts, st.Activities)
		sort.SliceStable(acts, func(i, j int) bool { return acts[i].Order < acts[j].Order })
		for _, a := range acts {
			batch = append(batch, phaseActivity{ActivityInput: a, stage: st.Name})
		}
	}

	durations := resolveDurations(batch, phaseDays)

	names := make(map[string]bool, len(batch))
	for _, a := range batch {
		names[a.Name] = true
	}
	items := make([]SequenceItem, len(batch))
	byName := make(map[string]phaseActivity, len(batch))
	for i, a := range batch {
		var deps []string
		for _, d := range a.DependsOn {
			if names[d] {
				deps = append(deps, d)
			}
		}
		items[i] = SequenceItem{Name: a.Name, DependsOn: deps}
		byName[a.Name] = a
	}

	scheduled := make(map[string]ScheduledActivity, len(batch))
	for _, item := range Sequence(items) {
		a := byName[item.Name]
		start := phaseStart
		if len(item.DependsOn) > 0 {
			var latest time.Time
			for _, dep := range item.DependsOn {
				if prev, ok := scheduled[dep]; ok && prev.End.After(latest) {
					latest = prev.End
				}
			}
			if !latest.IsZero() {
				start = cal.NextWorkingDay(latest.AddDate(0, 0, 1))
			}
		}
		days := durations[a.Name]
		scheduled[a.Name] = ScheduledActivity{
			ID:    a.ID,
			Name:  a.Name,
			Stage: a.stage,
			Start: start,
			End:   cal.Advance(start, days-1),
			Days:  days,
		}
	}

	out := ScheduledPhase{ID: phase.ID, Name: phase.Name}
	for _, st := range stages {
		if len(st.Activities) == 0 {
			continue
		}
		stage := ScheduledStage{ID: st.ID, Name: st.Name}
		for _, a := range st.Activities {
			sa := scheduled[a.Name]
			stage.Activities = append(stage.Activities, sa)
			if stage.Start.IsZero() || sa.Start.Before(stage.Start) {
				stage.Start = sa.Start
			}
			if sa.End.After(stage.End) {
				stage.End = sa.End
			}
		}
		out.Stages = append(out.Stages, stage)
	}
	return out
}

// resolveDurations assigns a day count to every activity in the batch: fixed
// durations are reserved outright, then the remaining phase budget (floored
// at 0) is split by weight among the flexible activities.
func resolveDurations(batch []phaseActivity, phaseDays int) map[string]int {
	durations := make(map[string]int, len(batch))

	fixedTotal := 0
	var flexible []phaseActivity
	for _, a := range batch {
		if a.DurationDays != nil {
			durations[a.Name] = *a.DurationDays
			fixedTotal += *a.DurationDays
			continue
		}
		flexible = append(flexible, a)
	}

	if len(flexible) == 0 {
		return durations
	}

	budget := phaseDays - fixedTotal
	if budget < 0 {
		budget = 0
	}
	weights := make([]float64, len(flexible))
	for i, a := range flexible {
		weights[i] = a.Weight
	}
	for i, d := range AllocateDays(weights, budget, 0) {
		durations[flexible[i].Name] = d
	}
	return durations
}
