package logger

// Report aggregates an event log into usage counts.
type Report struct {
	LogEntries int `json:"log_entries"`

	Sessions     int            `json:"sessions"`
	Commands     map[string]int `json:"commands,omitempty"`
	JobsStarted  int            `json:"jobs_started"`
	JobsReaped   int            `json:"jobs_reaped"`
	ModeToggles  int            `json:"mode_toggles"`
	ExecFailures map[string]int `json:"exec_failures,omitempty"`
}

// Update folds a single entry into the report.
func (r *Report) Update(le *LogEntry) {
	r.LogEntries++

	switch {
	case le.SessionStart != nil:
		r.Sessions++
	case le.CommandRun != nil:
		if len(le.CommandRun.Argv) > 0 {
			if r.Commands == nil {
				r.Commands = make(map[string]int)
			}
			r.Commands[le.CommandRun.Argv[0]]++
		}
	case le.JobStarted != nil:
		r.JobsStarted++
	case le.JobReaped != nil:
		r.JobsReaped++
	case le.ModeToggle != nil:
		r.ModeToggles++
	case le.ExecFailure != nil:
		if r.ExecFailures == nil {
			r.ExecFailures = make(map[string]int)
		}
		r.ExecFailures[le.ExecFailure.Name]++
	}
}
