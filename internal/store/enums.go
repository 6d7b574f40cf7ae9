package store

import "fmt"

// LeadStatus represents a lead's position in the sales pipeline.
type LeadStatus string

const (
	LeadStatusNew        LeadStatus = "new"
	LeadStatusContacted  LeadStatus = "contacted"
	LeadStatusInterested LeadStatus = "interested"
	LeadStatusQualified  LeadStatus = "qualified"
	LeadStatusConverted  LeadStatus = "converted"
	LeadStatusLost       LeadStatus = "lost"
)

var validLeadStatuses = map[LeadStatus]bool{
	LeadStatusNew:        true,
	LeadStatusContacted:  true,
	LeadStatusInterested: true,
	LeadStatusQualified:  true,
	LeadStatusConverted:  true,
	LeadStatusLost:       true,
}

// ParseLeadStatus validates a raw status value at the boundary.
func ParseLeadStatus(raw string) (LeadStatus, error) {
	status := LeadStatus(raw)
	if !validLeadStatuses[status] {
		return "", fmt.Errorf("invalid lead status: %q", raw)
	}
	return status, nil
}

// LeadSource represents where a lead entered the pipeline from.
type LeadSource string

const (
	LeadSourceWebsite  LeadSource = "website"
	LeadSourceWhatsApp LeadSource = "whatsapp"
	LeadSourceReferral LeadSource = "referral"
	LeadSourceSocial   LeadSource = "social"
	LeadSourceEvent    LeadSource = "event"
	LeadSourceOther    LeadSource = "other"
)

var validLeadSources = map[LeadSource]bool{
	LeadSourceWebsite:  true,
	LeadSourceWhatsApp: true,
	LeadSourceReferral: true,
	LeadSourceSocial:   true,
	LeadSourceEvent:    true,
	LeadSourceOther:    true,
}

// ParseLeadSource validates a raw source value at the boundary.
func ParseLeadSource(raw string) (LeadSource, error) {
	source := LeadSource(raw)
	if !validLeadSources[source] {
		return "", fmt.Errorf("invalid lead source: %q", raw)
	}
	return source, nil
}

// LeadPriority represents a lead's priority band.
type LeadPriority string

const (
	LeadPriorityLow    LeadPriority = "low"
	LeadPriorityMedium LeadPriority = "medium"
	LeadPriorityHigh   LeadPriority = "high"
	LeadPriorityUrgent LeadPriority = "urgent"
)

var validLeadPriorities = map[LeadPriority]bool{
	LeadPriorityLow:    true,
	LeadPriorityMedium: true,
	LeadPriorityHigh:   true,
	LeadPriorityUrgent: true,
}

// ParseLeadPriority validates a raw priority value at the boundary.
func ParseLeadPriority(raw string) (LeadPriority, error) {
	priority := LeadPriority(raw)
	if !validLeadPriorities[priority] {
		return "", fmt.Errorf("invalid lead priority: %q", raw)
	}
	return priority, nil
}

// MessageDirection distinguishes inbound from outbound messages.
type MessageDirection string

const (
	MessageDirectionInbound  MessageDirection = "inbound"
	MessageDirectionOutbound MessageDirection = "outbound"
)

// ParseMessageDirection validates a raw direction value at the boundary.
func ParseMessageDirection(raw string) (MessageDirection, error) {
	direction := MessageDirection(raw)
	if direction != MessageDirectionInbound && direction != MessageDirectionOutbound {
		return "", fmt.Errorf("invalid message direction: %q", raw)
	}
	return direction, nil
}

// MessageStatus represents a message's delivery lifecycle state.
type MessageStatus string

const (
	MessageStatusPending   MessageStatus = "pending"
	MessageStatusScheduled MessageStatus = "scheduled"
	MessageStatusSent      MessageStatus = "sent"
	MessageStatusDelivered MessageStatus = "delivered"
	MessageStatusRead      MessageStatus = "read"
	MessageStatusFailed    MessageStatus = "failed"
)

var validMessageStatuses = map[MessageStatus]bool{
	MessageStatusPending:   true,
	MessageStatusScheduled: true,
	MessageStatusSent:      true,
	MessageStatusDelivered: true,
	MessageStatusRead:      true,
	MessageStatusFailed:    true,
}

// ParseMessageStatus validates a raw status value at the boundary.
func ParseMessageStatus(raw string) (MessageStatus, error) {
	status := MessageStatus(raw)
	if !validMessageStatuses[status] {
		return "", fmt.Errorf("invalid message status: %q", raw)
	}
	return status, nil
}

// TemplateCategory represents the purpose of a message template.
type TemplateCategory string

const (
	TemplateCategoryWelcome  TemplateCategory = "welcome"
	TemplateCategoryFollowUp TemplateCategory = "follow_up"
	TemplateCategoryReminder TemplateCategory = "reminder"
	TemplateCategoryOffer    TemplateCategory = "offer"
	TemplateCategoryCustom   TemplateCategory = "custom"
)

var validTemplateCategories = map[TemplateCategory]bool{
	TemplateCategoryWelcome:  true,
	TemplateCategoryFollowUp: true,
	TemplateCategoryReminder: true,
	TemplateCategoryOffer:    true,
	TemplateCategoryCustom:   true,
}

// ParseTemplateCategory validates a raw category value at the boundary.
func ParseTemplateCategory(raw string) (TemplateCategory, error) {
	category := TemplateCategory(raw)
	if !validTemplateCategories[category] {
		return "", fmt.Errorf("invalid template category: %q", raw)
	}
	return category, nil
}
