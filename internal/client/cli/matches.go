package cli

import (
	"context"
	"fmt"
	"time"
)

// Matches lists the signed-in user's cached matches, newest first.
func (a *App) Matches(ctx context.Context) error {
	st := a.session.State()
	if !st.Authenticated || st.CurrentUser == nil {
		a.printf("Not signed in\n")
		return nil
	}
	if a.matches == nil {
		a.printf("No matches yet\n")
		return nil
	}

	list, err := a.matches.ListByUser(ctx, st.CurrentUser.ID)
	if err != nil {
		a.logger.Error(ctx, "list matches", "error", err)
		a.printf("Could not load matches\n")
		return err
	}
	if len(list) == 0 {
		a.printf("No matches yet\n")
		return nil
	}

	now := time.Now()
	for _, m := range list {
		line := m.MatchedUserID + "  " + string(m.Status)
		if m.IsRecentAt(now) {
			line += "  new"
		}
		if m.HasUnreadMessages {
			line += "  unread"
		}
		if days, ok := m.DaysSinceLastMessageAt(now); ok {
			line += fmt.Sprintf("  last message %dd ago", days)
		}
		a.printf("%s\n", line)
	}
	return nil
}
