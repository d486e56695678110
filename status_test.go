package launchd

import "testing"

func TestClassifyListOutput(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want Status
	}{
		{
			name: "running",
			out:  "PID\tStatus\tLabel\n1234\t0\tcom.test.foo\n",
			want: Status{State: StateRunning, PID: 1234},
		},
		{
			name: "stopped",
			out:  "PID\tStatus\tLabel\n-\t0\tcom.test.foo\n",
			want: Status{State: StateStopped},
		},
		{
			name: "running space separated",
			out:  "PID Status Label\n42 0 com.test.bar\n",
			want: Status{State: StateRunning, PID: 42},
		},
		{
			name: "empty output",
			out:  "",
			want: Status{State: StateUnknown},
		},
		{
			name: "single line",
			out:  "PID\tStatus\tLabel\n",
			want: Status{State: StateUnknown},
		},
		{
			name: "too few fields",
			out:  "PID\tStatus\tLabel\n1234\t0\n",
			want: Status{State: StateUnknown},
		},
		{
			name: "non numeric pid",
			out:  "PID\tStatus\tLabel\nabc\t0\tcom.test.foo\n",
			want: Status{State: StateUnknown},
		},
		{
			name: "negative pid",
			out:  "PID\tStatus\tLabel\n-5\t0\tcom.test.foo\n",
			want: Status{State: StateUnknown},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyListOutput(tt.out)
			if got != tt.want {
				t.Errorf("classifyListOutput(%q) = %+v, want %+v", tt.out, got, tt.want)
			}
		})
	}
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{Status{State: StateRunning, PID: 99}, "running (pid 99)"},
		{Status{State: StateStopped}, "stopped"},
		{Status{State: StateUnknown}, "unknown"},
	}

	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("Status.String() = %q, want %q", got, tt.want)
		}
	}
}

func TestStatusRunning(t *testing.T) {
	if !(Status{State: StateRunning, PID: 1}).Running() {
		t.Error("expected running status to report Running")
	}
	if (Status{State: StateStopped}).Running() {
		t.Error("expected stopped status to not report Running")
	}
	if (Status{State: StateUnknown}).Running() {
		t.Error("expected unknown status to not report Running")
	}
}
