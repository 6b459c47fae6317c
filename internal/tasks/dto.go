package tasks

// CreateTaskRequest is the create-task body. New tasks always start OPEN.
type CreateTaskRequest struct {
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description" validate:"required,max=1000"`
}

// UpdateStatusRequest is the status-update body.
type UpdateStatusRequest struct {
	Status Status `json:"status" validate:"required,oneof=OPEN IN_PROGRESS DONE"`
}

// Filter narrows a task listing. Zero values mean no filtering.
type Filter struct {
	Status Status `form:"status" validate:"omitempty,oneof=OPEN IN_PROGRESS DONE"`
	Search string `form:"search" validate:"omitempty,max=100"`
}
