package domain

type Location struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	MinStaff int32  `json:"minStaff"`
	MaxStaff int32  `json:"maxStaff"`
	Priority int32  `json:"priority"`
	IsActive bool   `json:"isActive"`
	Version  int32  `json:"-"`
}

func (l *Location) Validate() error {
	if l.Name == "" {
		return Validationf("location name is required")
	}
	if l.MinStaff < 0 || l.MaxStaff < l.MinStaff {
		return Validationf("staffing bounds %d..%d are invalid", l.MinStaff, l.MaxStaff)
	}
	return nil
}
