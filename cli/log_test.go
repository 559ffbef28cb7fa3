package cli

import "testing"

func TestLogConfigScan(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantLevel  logLevel
		wantFormat logFormat
		wantPretty bool
		wantCaller bool
	}{
		{
			name:       "separate values",
			args:       []string{"--log-level", "debug", "--log-format", "json"},
			wantLevel:  "debug",
			wantFormat: "json",
			wantPretty: true,
		},
		{
			name:       "assigned values",
			args:       []string{"compile", "--log-level=warn", "a.dss", "--log-format=text"},
			wantLevel:  "warn",
			wantFormat: "text",
			wantPretty: true,
		},
		{
			name:      "negated booleans",
			args:       []string{"--no-log-pretty", "--log-caller"},
			wantCaller: true,
		},
		{
			name:       "assigned booleans",
			args:       []string{"--log-pretty=false", "--no-log-caller=false"},
			wantCaller: true,
		},
		{
			name:       "value looks like a flag",
			args:       []string{"--log-level", "--log-caller"},
			wantPretty: true,
			wantCaller: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := logConfig{Pretty: true}
			f.scan(tt.args)

			if f.Level != tt.wantLevel || f.Format != tt.wantFormat ||
				f.Pretty != tt.wantPretty || f.Caller != tt.wantCaller {
				t.Errorf("scan(%q) = %+v", tt.args, f)
			}
		})
	}
}
