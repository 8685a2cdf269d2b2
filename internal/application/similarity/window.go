package similarity

import "github.com/doeshing/mastopoll/internal/domain"

// Window returns the last size records of history in their original order.
// The result never aliases history.
func Window(history []domain.HistoryRecord, size int) []domain.HistoryRecord {
	if size <= 0 || len(history) == 0 {
		return nil
	}
	start := len(history) - size
	if start < 0 {
		start = 0
	}
	out := make([]domain.HistoryRecord, len(history)-start)
	copy(out, history[start:])
	return out
}
