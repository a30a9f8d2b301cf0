package copypath

import "testing"

func TestConvertModes(t *testing.T) {
	cases := []struct {
		mode Mode
		path string
		want string
	}{
		{ModeUnix, "/srv/job/asset/a.ma", "/srv/job/asset/a.ma"},
		{ModeSlack, "/srv/job/asset/a.ma", "file:///srv/job/asset/a.ma"},
		{ModeMacOS, "C:/srv/job/asset/a.ma", "smb://C/srv/job/asset/a.ma"},
		{ModeWindows, "C:/srv/job/asset/a.ma", `C:\srv\job\asset\a.ma`},
		{ModeWindows, "srv/job/asset/a.ma", `\\srv\job\asset\a.ma`},
	}
	for _, c := range cases {
		if got := Convert(c.path, c.mode); got != c.want {
			t.Errorf("Convert(%q, %v) = %q, want %q", c.path, c.mode, got, c.want)
		}
	}
}
