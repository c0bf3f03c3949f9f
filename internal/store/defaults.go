package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/limbo/tickdone/pkg/entity"
)

// Seed content shown on first run, before anything has been persisted.

func defaultTaskData(now time.Time) ([]entity.TaskList, []entity.Task) {
	welcome := entity.TaskList{ID: uuid.New(), Name: "Welcome", Color: "#F8BD1C", View: entity.ViewList, Type: entity.ListKind}
	lists := []entity.TaskList{
		welcome,
		{ID: uuid.New(), Name: "Study", Color: "#3B82F6", View: entity.ViewList, Type: entity.ListKind},
		{ID: uuid.New(), Name: "Exercise", Color: "#10B981", View: entity.ViewList, Type: entity.ListKind},
		{ID: uuid.New(), Name: "Wishlist", Color: "#8B5CF6", View: entity.ViewList, Type: entity.ListKind},
		{ID: uuid.New(), Name: "Memo", Color: "#EC4899", View: entity.ViewList, Type: entity.ListKind},
		{ID: uuid.New(), Name: "Work", Color: "#F59E0B", View: entity.ViewList, Type: entity.ListKind},
	}

	gettingStart := entity.SectionGettingStart
	featureModules := entity.SectionFeatureModules
	exploreMore := entity.SectionExploreMore
	tasks := []entity.Task{
		{
			ID:          uuid.New(),
			Title:       "Kanban, Timeline View: Visual management",
			Description: "Efficiently switch between list views for better task management.",
			ListID:      welcome.ID,
			CreatedAt:   now,
			Priority:    entity.PriorityUrgentImportant,
			Type:        entity.TypeTask,
			Section:     &gettingStart,
		},
		{
			ID:          uuid.New(),
			Title:       "Eisenhower Matrix: Prioritize tasks",
			Description: "Use the Eisenhower Matrix to prioritize your tasks effectively.",
			ListID:      welcome.ID,
			CreatedAt:   now,
			Priority:    entity.PriorityUrgentUnimportant,
			Type:        entity.TypeTask,
			Section:     &featureModules,
		},
		{
			ID:          uuid.New(),
			Title:       "Pomodoro: Rescue from procrastination",
			Description: "Use the Pomodoro technique to stay focused and productive.",
			ListID:      welcome.ID,
			CreatedAt:   now,
			Priority:    entity.PriorityNotUrgentUnimportant,
			Type:        entity.TypeTask,
			Section:     &featureModules,
		},
		{
			ID:          uuid.New(),
			Title:       "Habit: Visualize your efforts",
			Description: "Track your habits and visualize your progress over time.",
			ListID:      welcome.ID,
			CreatedAt:   now,
			Priority:    entity.PriorityNotUrgentUnimportant,
			Type:        entity.TypeTask,
			Section:     &featureModules,
		},
		{
			ID:          uuid.New(),
			Title:       "Sticky Note: Record ideas at any time",
			Description: "Quickly capture your thoughts and ideas.",
			ListID:      welcome.ID,
			CreatedAt:   now,
			Priority:    entity.PriorityNotUrgentImportant,
			Type:        entity.TypeNote,
			Section:     &exploreMore,
		},
		{
			ID:          uuid.New(),
			Title:       "More unique features",
			Description: "Discover more productivity tools in our app.",
			ListID:      welcome.ID,
			CreatedAt:   now,
			Priority:    entity.PriorityNotUrgentUnimportant,
			Type:        entity.TypeTask,
			Pinned:      true,
		},
	}
	return lists, tasks
}

func defaultSections() []entity.Section {
	names := []string{"English", "Sports", "Courses", "Morning", "Afternoon", "Night"}
	sections := make([]entity.Section, 0, len(names))
	for _, name := range names {
		sections = append(sections, entity.Section{ID: uuid.New(), Name: name})
	}
	return sections
}
