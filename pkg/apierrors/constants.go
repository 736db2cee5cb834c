package apierrors

const (
	MsgFailListTask          = "failListTask"
	MsgFailGetTask           = "failGetTask"
	MsgFailCreateTask        = "failCreateTask"
	MsgFailUpdateTask        = "failUpdateTask"
	MsgFailDeleteTask        = "failDeleteTask"
	MsgFailIncreaseProgress  = "failIncreaseProgress"
	MsgFailArchiveTask       = "failArchiveTask"
	MsgFailReopenTask        = "failReopenTask"
	MsgInvalidTaskID         = "invalidTaskID"
	MsgInvalidTaskPayload    = "invalidTaskPayload"
	MsgInvalidTaskStatus     = "invalidTaskStatus"
	MsgTaskNotFound          = "taskNotFound"
	MsgImmutableTaskField    = "immutableTaskField"
	MsgIllegalTaskTransition = "illegalTaskTransition"
)
