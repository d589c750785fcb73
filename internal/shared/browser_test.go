package shared

import (
	"testing"
)

func TestBrowserCommand(t *testing.T) {
	orig := getRuntime
	defer func() { getRuntime = orig }()

	tt := []struct {
		goos     string
		wantPath string
		wantArgs int
		wantErr  bool
	}{
		{goos: "darwin", wantPath: "open", wantArgs: 2},
		{goos: "linux", wantPath: "xdg-open", wantArgs: 2},
		{goos: "windows", wantPath: "cmd", wantArgs: 4},
		{goos: "plan9", wantErr: true},
	}

	for _, tc := range tt {
		t.Run(tc.goos, func(t *testing.T) {
			getRuntime = func() string { return tc.goos }

			cmd, err := BrowserCommand("http://localhost:3000")
			if (err != nil) != tc.wantErr {
				t.Fatalf("BrowserCommand() error = %v, wantErr %v", err, tc.wantErr)
			}
			if tc.wantErr {
				return
			}

			if cmd.Args[0] != tc.wantPath {
				t.Errorf("expected %s, got %s", tc.wantPath, cmd.Args[0])
			}
			if len(cmd.Args) != tc.wantArgs {
				t.Errorf("expected %d args, got %v", tc.wantArgs, cmd.Args)
			}
			if cmd.Args[len(cmd.Args)-1] != "http://localhost:3000" {
				t.Errorf("expected url as last arg, got %v", cmd.Args)
			}
		})
	}
}
