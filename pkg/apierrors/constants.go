package apierrors

const (
	MsgInvalidPayload = "invalidPayload"
	MsgInvalidAPIKey  = "invalidApiKey"

	MsgSessionRequired    = "sessionRequired"
	MsgSessionExpired     = "sessionExpired"
	MsgInvalidCredentials = "invalidCredentials"
	MsgEmailTaken         = "emailTaken"
	MsgFailSignUp         = "failSignUp"
	MsgFailSignIn         = "failSignIn"
	MsgFailSignOut        = "failSignOut"
	MsgFailResolveSession = "failResolveSession"

	MsgTaskNotFound         = "taskNotFound"
	MsgHabitNotFound        = "habitNotFound"
	MsgProjectNotFound      = "projectNotFound"
	MsgTimetableNotFound    = "timetableNotFound"
	MsgNotificationNotFound = "notificationNotFound"

	MsgFailRefresh       = "failRefresh"
	MsgFailMutation      = "failMutation"
	MsgFailSeedHabits    = "failSeedHabits"
	MsgFailCreateProject = "failCreateProject"
	MsgFailAssistant     = "failAssistant"
	MsgFailStream        = "failStream"
)
