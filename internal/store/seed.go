package store

import "time"

// Seed sequences initialize a slot on first read and repair it after a parse
// failure. Dates are relative to now so charts and the dashboard have
// something to show on a fresh profile.

func daysAgo(now time.Time, n int) time.Time {
	return now.AddDate(0, 0, -n)
}

func daysAhead(now time.Time, n int) *time.Time {
	t := now.AddDate(0, 0, n)
	return &t
}

func seedTasks(now time.Time) []Task {
	return []Task{
		{
			ID:          "1",
			Title:       "Finish monthly report",
			Description: "Wrap up the data analysis for last month",
			Priority:    PriorityHigh,
			Category:    "work",
			Tags:        []string{"report", "analysis"},
			DueDate:     daysAhead(now, 3),
			CreatedAt:   daysAgo(now, 2),
			UpdatedAt:   daysAgo(now, 2),
			Subtasks: []Subtask{
				{ID: "1-1", Title: "Collect data", Completed: true},
				{ID: "1-2", Title: "Review metrics", Completed: true},
				{ID: "1-3", Title: "Write conclusions", Completed: false},
			},
		},
		{
			ID:          "2",
			Title:       "Buy groceries for dinner",
			Description: "Tomatoes, onions, garlic, beef",
			Completed:   true,
			Priority:    PriorityMedium,
			Category:    "personal",
			Tags:        []string{"shopping", "home"},
			DueDate:     daysAhead(now, 0),
			CreatedAt:   daysAgo(now, 1),
			UpdatedAt:   daysAgo(now, 0),
			Subtasks:    []Subtask{},
		},
		{
			ID:          "3",
			Title:       "Study Go concurrency patterns",
			Description: "Work through the worker-pool and pipeline chapters",
			Priority:    PriorityHigh,
			Category:    "study",
			Tags:        []string{"programming", "go"},
			DueDate:     daysAhead(now, 8),
			CreatedAt:   daysAgo(now, 4),
			UpdatedAt:   daysAgo(now, 4),
			Subtasks: []Subtask{
				{ID: "3-1", Title: "Chapter 1: goroutines", Completed: true},
				{ID: "3-2", Title: "Chapter 2: channels", Completed: false},
				{ID: "3-3", Title: "Chapter 3: select", Completed: false},
			},
		},
		{
			ID:          "4",
			Title:       "Book annual health check-up",
			Description: "Cardiologist appointment",
			Priority:    PriorityMedium,
			Category:    "health",
			Tags:        []string{"doctor", "health"},
			DueDate:     daysAhead(now, 6),
			CreatedAt:   daysAgo(now, 3),
			UpdatedAt:   daysAgo(now, 3),
			Subtasks:    []Subtask{},
		},
		{
			ID:          "5",
			Title:       "Tidy up the home office",
			Description: "Clear the desk, file the paperwork",
			Priority:    PriorityLow,
			Category:    "home",
			Tags:        []string{"organizing"},
			DueDate:     daysAhead(now, 4),
			CreatedAt:   daysAgo(now, 0),
			UpdatedAt:   daysAgo(now, 0),
			Subtasks:    []Subtask{},
		},
	}
}

func seedGoals(now time.Time) []Goal {
	return []Goal{
		{
			ID:           "1",
			Title:        "Read 12 books this year",
			Description:  "One book a month, any genre",
			Category:     "personal",
			TargetValue:  12,
			CurrentValue: 3,
			Unit:         "books",
			Deadline:     daysAhead(now, 300),
			CreatedAt:    daysAgo(now, 30),
			UpdatedAt:    daysAgo(now, 5),
		},
		{
			ID:           "2",
			Title:        "Save an emergency fund",
			Description:  "Three months of expenses set aside",
			Category:     "finance",
			TargetValue:  10000,
			CurrentValue: 2500,
			Unit:         "dollars",
			Deadline:     daysAhead(now, 300),
			CreatedAt:    daysAgo(now, 30),
			UpdatedAt:    daysAgo(now, 10),
		},
		{
			ID:           "3",
			Title:        "Run 500 km",
			Description:  "Keep a steady running habit",
			Category:     "health",
			TargetValue:  500,
			CurrentValue: 85,
			Unit:         "km",
			Deadline:     daysAhead(now, 300),
			CreatedAt:    daysAgo(now, 30),
			UpdatedAt:    daysAgo(now, 2),
		},
		{
			ID:           "4",
			Title:        "Finish the TypeScript course",
			Description:  "Complete all modules and the final project",
			Category:     "work",
			TargetValue:  100,
			CurrentValue: 65,
			Unit:         "% progress",
			Deadline:     daysAhead(now, 120),
			CreatedAt:    daysAgo(now, 30),
			UpdatedAt:    daysAgo(now, 1),
		},
	}
}

func seedNotes(now time.Time) []Note {
	return []Note{
		{
			ID:        "1",
			Title:     "Presentation ideas",
			Content:   "- More visual charts\n- Include success stories\n- Prepare an interactive demo\n- Lead with the main benefits",
			Category:  "work",
			Tags:      []string{"presentation", "ideas"},
			IsPinned:  true,
			CreatedAt: daysAgo(now, 2),
			UpdatedAt: daysAgo(now, 1),
		},
		{
			ID:        "2",
			Title:     "Chocolate cake recipe",
			Content:   "Ingredients:\n- 2 cups flour\n- 1 cup sugar\n- 1/2 cup cocoa\n- 2 eggs\n- 1 cup milk\n\nMix dry, add wet, bake 30min at 180C.",
			Category:  "personal",
			Tags:      []string{"recipe", "baking"},
			CreatedAt: daysAgo(now, 3),
			UpdatedAt: daysAgo(now, 3),
		},
		{
			ID:        "3",
			Title:     "Course notes",
			Content:   "Key points:\n- Small focused packages\n- Errors are values\n- Table-driven tests\n- Accept interfaces, return structs",
			Category:  "study",
			Tags:      []string{"go", "programming"},
			IsPinned:  true,
			CreatedAt: daysAgo(now, 4),
			UpdatedAt: daysAgo(now, 0),
		},
	}
}

func seedEntries(now time.Time) []TimeEntry {
	return []TimeEntry{
		{
			ID:          "1",
			Description: "Implementing the login feature",
			Category:    "work",
			Duration:    120,
			StartTime:   daysAgo(now, 0).Add(-3 * time.Hour),
			CreatedAt:   daysAgo(now, 0).Add(-1 * time.Hour),
		},
		{
			ID:          "2",
			Description: "Studying Go concurrency",
			Category:    "study",
			Duration:    60,
			StartTime:   daysAgo(now, 1),
			CreatedAt:   daysAgo(now, 1),
		},
		{
			ID:          "3",
			Description: "Sprint planning meeting",
			Category:    "work",
			Duration:    90,
			StartTime:   daysAgo(now, 1).Add(-2 * time.Hour),
			CreatedAt:   daysAgo(now, 1).Add(-2 * time.Hour),
		},
		{
			ID:          "4",
			Description: "Workout",
			Category:    "health",
			Duration:    45,
			StartTime:   daysAgo(now, 2),
			CreatedAt:   daysAgo(now, 2),
		},
	}
}

func seedSessions(now time.Time) []PomodoroSession {
	end := func(start time.Time, minutes int) *time.Time {
		t := start.Add(time.Duration(minutes) * time.Minute)
		return &t
	}
	s1 := daysAgo(now, 0).Add(-4 * time.Hour)
	s2 := daysAgo(now, 0).Add(-3 * time.Hour)
	s3 := s2.Add(25 * time.Minute)
	s4 := daysAgo(now, 1)
	return []PomodoroSession{
		{ID: "1", Type: SessionWork, Duration: 25, Completed: true, StartTime: s1, EndTime: end(s1, 25)},
		{ID: "2", Type: SessionWork, Duration: 25, Completed: true, StartTime: s2, EndTime: end(s2, 25)},
		{ID: "3", Type: SessionShortBreak, Duration: 5, Completed: true, StartTime: s3, EndTime: end(s3, 5)},
		{ID: "4", Type: SessionWork, Duration: 25, Completed: false, StartTime: s4, EndTime: end(s4, 25)},
	}
}
