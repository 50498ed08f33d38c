package handler

type ContextKey string

var (
	RoleCtxKey   ContextKey = "role"
	SubCtxKey    ContextKey = "sub"
	UserInfoCtx  ContextKey = "userInfo"
	ScheduleCtx  ContextKey = "schedule"
	TimeOffCtx   ContextKey = "timeOffRequest"
	ShiftSwapCtx ContextKey = "shiftSwap"
)
