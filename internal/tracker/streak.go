package tracker

import (
	"strings"
	"time"
)

// CheckStreak advances the login streak for a session that starts on today
// and reports whether settings changed. The outcome depends only on the
// stored lastLogin and today, so repeated sessions on one day are no-ops:
//
//	lastLogin == today      -> unchanged
//	lastLogin == yesterday  -> streak+1
//	anything else or unset  -> streak = 1
func CheckStreak(s *Settings, today DayKey) bool {
	last := loginDay(s.LastLogin)
	if last == today {
		if s.LastLogin != string(today) {
			s.LastLogin = string(today)
			return true
		}
		return false
	}

	if last != "" && last == today.Shift(-1) {
		s.Streak++
	} else {
		s.Streak = 1
	}
	s.LastLogin = string(today)
	return true
}

// loginDay normalizes a stored lastLogin value to a day key. Both the
// YYYY-MM-DD form and the older "Mon Jan 02 2006" form are understood;
// anything else counts as unset.
func loginDay(v string) DayKey {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if k, err := ParseDayKey(v); err == nil {
		return k
	}
	if t, err := time.ParseInLocation(legacyLoginLayout, v, time.Local); err == nil {
		return DayKey(t.Format(DateLayout))
	}
	return ""
}
