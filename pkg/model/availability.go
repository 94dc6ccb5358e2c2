package model

// AvailabilityWindow is an admin-defined bookable window for a single
// calendar date. Dates are "YYYY-MM-DD" strings and times are "HH:mm"
// strings in the admin's timezone; duration is in minutes.
type AvailabilityWindow struct {
	ID        string `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Date      string `json:"date" bson:"date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" bson:"start_time" validate:"required,clock_hhmm"`
	EndTime   string `json:"end_time" bson:"end_time" validate:"required,clock_hhmm"`
	Duration  int    `json:"duration" bson:"duration" validate:"required,min=5,max=480"`
}

// AvailabilityRequest is the admin batch-insert payload: one window per
// date, all sharing the same start/end/duration.
type AvailabilityRequest struct {
	Dates     []string `json:"dates" validate:"required,min=1,max=90,dive,datetime=2006-01-02"`
	StartTime string   `json:"start_time" validate:"required,clock_hhmm"`
	EndTime   string   `json:"end_time" validate:"required,clock_hhmm"`
	Duration  int      `json:"duration" validate:"omitempty,min=5,max=480"`
}
