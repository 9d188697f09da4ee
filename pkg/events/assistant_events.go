package events

const (
	TypeDisputeStatusChanged = "DISPUTE_STATUS_CHANGED"
	TypeDisputeCommentAdded  = "DISPUTE_COMMENT_ADDED"
	TypeEmailSent            = "EMAIL_SENT"
	TypeHelpIndexRebuilt     = "HELP_INDEX_REBUILT"
)

func DisputeStatusChanged(disputeID int64, previous, current, changedBy string) BaseEvent {
	return newEvent(TypeDisputeStatusChanged, map[string]interface{}{
		"dispute_id":      disputeID,
		"previous_status": previous,
		"new_status":      current,
		"changed_by":      changedBy,
	})
}

func DisputeCommentAdded(disputeID int64, processor string) BaseEvent {
	return newEvent(TypeDisputeCommentAdded, map[string]interface{}{
		"dispute_id": disputeID,
		"processor":  processor,
	})
}

// EmailSent carries recipient count only; addresses stay out of the bus.
func EmailSent(sessionID string, recipients int, subject string) BaseEvent {
	return newEvent(TypeEmailSent, map[string]interface{}{
		"session_id": sessionID,
		"recipients": recipients,
		"subject":    subject,
	})
}

func HelpIndexRebuilt(chunks int, documents int) BaseEvent {
	return newEvent(TypeHelpIndexRebuilt, map[string]interface{}{
		"chunks":    chunks,
		"documents": documents,
	})
}
