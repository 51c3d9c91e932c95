package web

import (
	"time"

	vm "github.com/adrianwozniak/hearth/internal/adapter/driving/web/viewmodel"
	"github.com/adrianwozniak/hearth/internal/domain/model"
)

func goalCards(goals []model.Goal) []vm.GoalCard {
	cards := make([]vm.GoalCard, 0, len(goals))
	for _, g := range goals {
		cards = append(cards, vm.GoalCard{
			ID:            g.ID,
			Name:          g.Name,
			TargetAmount:  g.TargetAmount,
			CurrentAmount: g.CurrentAmount,
			ProgressPct:   int(g.Progress() * 100),
			Completed:     g.IsCompleted,
		})
	}
	return cards
}

func memberOptions(members []model.FamilyMember) []vm.MemberOption {
	opts := make([]vm.MemberOption, 0, len(members))
	for _, m := range members {
		opts = append(opts, vm.MemberOption{ID: m.ID, FullName: m.FullName})
	}
	return opts
}

// memberNames indexes members by ID for assignee and comment author display.
func memberNames(members []model.FamilyMember) map[int64]string {
	names := make(map[int64]string, len(members))
	for _, m := range members {
		names[m.ID] = m.FullName
	}
	return names
}

func taskCard(t model.Task, names map[int64]string) vm.TaskCard {
	card := vm.TaskCard{
		ID:    t.ID,
		Title: t.Title,
		Done:  t.IsDone(),
	}
	if t.Rating != nil {
		card.Rating = *t.Rating
	}
	if t.AssignedToID != nil {
		card.AssigneeName = names[*t.AssignedToID]
	}
	if t.Deadline != nil {
		card.Deadline = *t.Deadline
	}
	return card
}

func taskCards(tasks []model.Task, names map[int64]string) []vm.TaskCard {
	cards := make([]vm.TaskCard, 0, len(tasks))
	for _, t := range tasks {
		cards = append(cards, taskCard(t, names))
	}
	return cards
}

func commentViews(comments []model.TaskComment, names map[int64]string) []vm.CommentView {
	views := make([]vm.CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, vm.CommentView{
			AuthorName: names[c.UserID],
			CreatedAt:  formatTimestamp(c.CreatedAt),
			BodyHTML:   RenderMarkdown(c.Content),
		})
	}
	return views
}

// formatTimestamp renders an API timestamp for display, passing unparseable
// values through unchanged.
func formatTimestamp(raw string) string {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("Jan 2, 2006 15:04")
		}
	}
	return raw
}
