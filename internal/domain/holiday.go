package domain

import "time"

type Holiday struct {
	ID       int64     `json:"id"`
	Name     string    `json:"name"`
	Date     time.Time `json:"date"`
	IsClosed bool      `json:"isClosed"`
}
