package domain

type Task struct {
	ID          int64
	Title       string
	Description string
}
