package calendar

import "fieldcal/internal/model"

// StyleTag names the visual treatment of an event.
type StyleTag string

const (
	StyleUrgent     StyleTag = "urgent"
	StylePreventive StyleTag = "preventive"
	StyleInProgress StyleTag = "in_progress"
	StyleCompleted  StyleTag = "completed"
	StyleOpen       StyleTag = "open"
	StyleDefault    StyleTag = "default"
)

// Precedence ranks; lower wins.
const (
	RankPriority = 1
	RankCategory = 2
	RankStatus   = 3
	RankFallback = 4
)

// Style is the outcome of ClassifyEventStyle. Rank tells which rule
// decided the tag.
type Style struct {
	Tag  StyleTag
	Rank int
}

// ClassifyEventStyle picks the treatment of an event. Rules are evaluated
// in a fixed order and the first match wins: urgent priority, then the
// preventive category, then the order status.
func ClassifyEventStyle(ev model.ScheduledEvent) Style {
	if ev.Priority == model.PriorityUrgent {
		return Style{Tag: StyleUrgent, Rank: RankPriority}
	}
	if ev.Category == model.CategoryPreventive {
		return Style{Tag: StylePreventive, Rank: RankCategory}
	}

	status, _ := ev.Status.ServiceOrderStatus()
	switch status {
	case model.StatusInProgress:
		return Style{Tag: StyleInProgress, Rank: RankStatus}
	case model.StatusCompleted:
		return Style{Tag: StyleCompleted, Rank: RankStatus}
	case model.StatusOpen:
		return Style{Tag: StyleOpen, Rank: RankStatus}
	default:
		return Style{Tag: StyleDefault, Rank: RankFallback}
	}
}

// Icon is the marker shown next to an event title.
type Icon string

const (
	IconAlert  Icon = "alert"
	IconShield Icon = "shield"
	IconWrench Icon = "wrench"
)

// IconFor follows the same precedence for the marker: urgent events get
// an alert, preventive visits a shield, everything else a wrench.
func IconFor(ev model.ScheduledEvent) Icon {
	switch ClassifyEventStyle(ev).Tag {
	case StyleUrgent:
		return IconAlert
	case StylePreventive:
		return IconShield
	default:
		return IconWrench
	}
}

// Legend lists the tags in precedence order.
func Legend() []StyleTag {
	return []StyleTag{StyleUrgent, StylePreventive, StyleInProgress, StyleCompleted, StyleOpen, StyleDefault}
}
