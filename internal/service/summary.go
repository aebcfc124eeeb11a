package service

import (
	"time"

	"taskboard/internal/model"
)

// CreatedOnLayout renders timestamps as dd/MM/yyyy HH:mm.
const CreatedOnLayout = "02/01/2006 15:04"

type OwnerSummary struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// TaskSummary is the externally visible shape of a task.
type TaskSummary struct {
	ID          uint         `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	CreatedOn   string       `json:"createdOn"`
	Board       string       `json:"board"`
	Owner       OwnerSummary `json:"owner"`
}

// TaskDetails is the compact task shape used inside board listings.
type TaskDetails struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Owner       string `json:"owner"`
}

type BoardListing struct {
	ID    uint          `json:"id"`
	Name  string        `json:"name"`
	Tasks []TaskDetails `json:"tasks"`
}

type BoardOption struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// FormatCreatedOn renders t in local time using CreatedOnLayout.
func FormatCreatedOn(t time.Time) string {
	return t.Local().Format(CreatedOnLayout)
}

func summarize(t model.Task) TaskSummary {
	return TaskSummary{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		CreatedOn:   FormatCreatedOn(t.CreatedOn),
		Board:       t.Board.Name,
		Owner: OwnerSummary{
			ID:        t.OwnerID,
			Username:  t.Owner.Username,
			FirstName: t.Owner.FirstName,
			LastName:  t.Owner.LastName,
			Email:     t.Owner.Email,
		},
	}
}

func summarizeAll(tasks []model.Task) []TaskSummary {
	out := make([]TaskSummary, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, summarize(t))
	}
	return out
}
