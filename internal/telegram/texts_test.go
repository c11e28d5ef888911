package telegram

import "testing"

func TestDueLabel(t *testing.T) {
	cases := []struct {
		diff int
		want string
	}{
		{3, "3 days overdue"},
		{1, "1 day overdue"},
		{0, "Today"},
		{-1, "Tomorrow"},
		{-4, "In 4 days"},
	}
	for _, c := range cases {
		if got := dueLabel(c.diff); got != c.want {
			t.Errorf("dueLabel(%d) = %q, want %q", c.diff, got, c.want)
		}
	}
}

func TestSplitCommand(t *testing.T) {
	cases := []struct {
		in       string
		cmd, arg string
	}{
		{"/list", "/list", ""},
		{"/add meds 08:00-10:00", "/add", "meds 08:00-10:00"},
		{"/done@tasktracker_bot meds", "/done", "meds"},
		{"hello", "", "hello"},
	}
	for _, c := range cases {
		cmd, arg := splitCommand(c.in)
		if cmd != c.cmd || arg != c.arg {
			t.Errorf("splitCommand(%q) = (%q, %q), want (%q, %q)", c.in, cmd, arg, c.cmd, c.arg)
		}
	}
}
