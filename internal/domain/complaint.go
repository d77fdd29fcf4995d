package domain

import "time"

type ComplaintStatus string

const (
	ComplaintStatusUnread ComplaintStatus = "Unread"
	ComplaintStatusRead   ComplaintStatus = "Read"
)

type Complaint struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Email   string          `json:"email"`
	Contact string          `json:"contact"`
	Message string          `json:"message"`
	Photo   string          `json:"photo"`
	Date    time.Time       `json:"date"`
	Status  ComplaintStatus `json:"status"`
}
