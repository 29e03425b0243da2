package notification

import (
	"github.com/iho/bonusledger/internal/domain"
	"github.com/iho/bonusledger/internal/infrastructure/i18n"
)

// Format renders n in the holder's locale.
func Format(n *domain.Notification, id string) *domain.Message {
	locale := domain.NormalizeLocale(n.Locale)
	p := i18n.Printer(locale)
	kind := i18n.KindName(p, n.Kind)

	var text string
	switch n.Type {
	case domain.NotificationEntryAdded:
		text = p.Sprintf(i18n.KeyEntryAdded, n.Amount, kind, n.DocumentID, n.Balance)
	case domain.NotificationEntryRemoved:
		text = p.Sprintf(i18n.KeyEntryRemoved, -n.Amount, kind, n.DocumentID, n.Balance)
	case domain.NotificationEntryCorrected:
		text = p.Sprintf(i18n.KeyEntryCorrected, n.DocumentID, kind, n.PreviousAmount, n.Amount, n.Balance)
	case domain.NotificationDocumentReversed:
		text = p.Sprintf(i18n.KeyDocumentReversed, n.DocumentID, kind, n.Amount, n.Balance)
	case domain.NotificationRoleGranted:
		text = p.Sprintf(i18n.KeyRoleGranted, string(n.Role))
	case domain.NotificationRoleRevoked:
		text = p.Sprintf(i18n.KeyRoleRevoked)
	default:
		text = string(n.Type)
	}

	if n.Description != "" && isEntryNotification(n.Type) {
		text = p.Sprintf(i18n.KeyEntryDescription, text, n.Description)
	}

	return &domain.Message{
		ID:        id,
		Type:      string(n.Type),
		AccountID: n.AccountID,
		ChatID:    n.ChatID,
		Locale:    locale,
		Text:      text,
		CreatedAt: n.CreatedAt,
	}
}

func isEntryNotification(t domain.NotificationType) bool {
	switch t {
	case domain.NotificationEntryAdded, domain.NotificationEntryRemoved, domain.NotificationEntryCorrected:
		return true
	}
	return false
}
