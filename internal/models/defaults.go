package models

// MinPasswordLength is the shortest password signup accepts.
const MinPasswordLength = 6

// PlaceholderEvents stand in for the event list when it cannot be loaded.
var PlaceholderEvents = []Event{
	{
		ID:          "1",
		Title:       "Sample Event 1",
		Description: "This is a sample event description",
		Date:        "2024-01-15",
		Location:    "Sample Location",
		OrganizerID: "1",
	},
	{
		ID:          "2",
		Title:       "Sample Event 2",
		Description: "Another sample event description",
		Date:        "2024-01-20",
		Location:    "Another Location",
		OrganizerID: "1",
	},
}
