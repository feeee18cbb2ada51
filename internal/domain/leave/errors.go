package leave

import "errors"

var (
	ErrLeaveRequestNotFound    = errors.New("leave request not found")
	ErrLeaveTemplateNotFound   = errors.New("leave template not found")
	ErrCategoryNotInTemplate   = errors.New("category does not belong to the assigned leave template")
	ErrRequestAlreadyProcessed = errors.New("leave request already processed")
	ErrNotRequestOwner         = errors.New("only the requester can cancel a leave request")
	ErrCancelNotPending        = errors.New("only pending leave requests can be cancelled")
)
