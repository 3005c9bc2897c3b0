package collapsed

import (
	"slices"
	"strings"
	"testing"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		wantStatus Status
		wantFrames []string
		wantValue  float64
		wantValue2 float64
		wantDiff   bool
		wantFrac   bool
	}{
		{
			name:       "single weight",
			line:       "main;run;work 12",
			wantStatus: OK,
			wantFrames: []string{"main", "run", "work"},
			wantValue:  12,
			wantValue2: 12,
		},
		{
			name:       "differential",
			line:       "main;run 3 7",
			wantStatus: OK,
			wantFrames: []string{"main", "run"},
			wantValue:  3,
			wantValue2: 7,
			wantDiff:   true,
		},
		{
			name:       "frame names with spaces",
			line:       "java;Thread run;void Foo.bar() 4",
			wantStatus: OK,
			wantFrames: []string{"java", "Thread run", "void Foo.bar()"},
			wantValue:  4,
			wantValue2: 4,
		},
		{
			name:       "trailing carriage return",
			line:       "a;b 1\r",
			wantStatus: OK,
			wantFrames: []string{"a", "b"},
			wantValue:  1,
			wantValue2: 1,
		},
		{
			name:       "tab separator",
			line:       "a;b\t9",
			wantStatus: OK,
			wantFrames: []string{"a", "b"},
			wantValue:  9,
			wantValue2: 9,
		},
		{
			name:       "fractional weight",
			line:       "a;b 1.5",
			wantStatus: OK,
			wantFrames: []string{"a", "b"},
			wantValue:  1.5,
			wantValue2: 1.5,
			wantFrac:   true,
		},
		{
			name:       "zero fraction is integral",
			line:       "a;b 2.000",
			wantStatus: OK,
			wantFrames: []string{"a", "b"},
			wantValue:  2,
			wantValue2: 2,
		},
		{
			name:       "fractional second weight",
			line:       "a 2 0.25",
			wantStatus: OK,
			wantFrames: []string{"a"},
			wantValue:  2,
			wantValue2: 0.25,
			wantDiff:   true,
			wantFrac:   true,
		},
		{
			name:       "exponent integral",
			line:       "a 1e3",
			wantStatus: OK,
			wantFrames: []string{"a"},
			wantValue:  1000,
			wantValue2: 1000,
		},
		{name: "blank", line: "   ", wantStatus: Empty},
		{name: "empty", line: "", wantStatus: Empty},
		{name: "missing weight", line: "main;run;work", wantStatus: Malformed},
		{name: "non numeric weight", line: "main;run abc", wantStatus: Malformed},
		{name: "weight only", line: "42", wantStatus: Malformed},
		{name: "negative weight", line: "a;b -3", wantStatus: Malformed},
		{name: "nan weight", line: "a;b NaN", wantStatus: Malformed},
		{name: "infinite weight", line: "a;b +Inf", wantStatus: Malformed},
		{name: "overflowing weight", line: "a;b 1e999", wantStatus: Malformed},
		{name: "underscore digits", line: "a;b 1_000", wantStatus: Malformed},
		{name: "explicit plus sign", line: "a;b +3", wantStatus: Malformed},
		{name: "hex weight", line: "a;b 0x10", wantStatus: Malformed},
		{name: "hex float weight", line: "a;b 0x1p4", wantStatus: Malformed},
		{name: "leading empty frame", line: ";a 3", wantStatus: Malformed},
		{name: "trailing empty frame", line: "a; 3", wantStatus: Malformed},
		{name: "empty middle frame", line: "a;;b 3", wantStatus: Malformed},
		{
			name:       "leading dot weight",
			line:       "a .5",
			wantStatus: OK,
			wantFrames: []string{"a"},
			wantValue:  0.5,
			wantValue2: 0.5,
			wantFrac:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, st := ParseLine(tt.line)
			if st != tt.wantStatus {
				t.Fatalf("ParseLine(%q) status = %v, want %v", tt.line, st, tt.wantStatus)
			}
			if st != OK {
				return
			}
			if !slices.Equal(rec.Frames, tt.wantFrames) {
				t.Errorf("Frames = %q, want %q", rec.Frames, tt.wantFrames)
			}
			if rec.Value != tt.wantValue || rec.Value2 != tt.wantValue2 {
				t.Errorf("Values = (%v, %v), want (%v, %v)", rec.Value, rec.Value2, tt.wantValue, tt.wantValue2)
			}
			if rec.Differential != tt.wantDiff {
				t.Errorf("Differential = %v, want %v", rec.Differential, tt.wantDiff)
			}
			if rec.Fractional != tt.wantFrac {
				t.Errorf("Fractional = %v, want %v", rec.Fractional, tt.wantFrac)
			}
		})
	}
}

func TestRecordReversed(t *testing.T) {
	rec := Record{Frames: []string{"a", "b", "c"}, Value: 1}
	rev := rec.Reversed()
	if !slices.Equal(rev.Frames, []string{"c", "b", "a"}) {
		t.Errorf("Reversed().Frames = %q", rev.Frames)
	}
	if !slices.Equal(rec.Frames, []string{"a", "b", "c"}) {
		t.Errorf("Reversed() modified the receiver: %q", rec.Frames)
	}
}

func TestReader(t *testing.T) {
	input := strings.Join([]string{
		"a;b 1",
		"",
		"garbage",
		"a;c 2.5",
		"a;d 1 2",
	}, "\n")

	var stats Stats
	r := NewReader(strings.NewReader(input), &stats)

	var got []string
	for r.Next() {
		got = append(got, strings.Join(r.Record().Frames, ";"))
	}
	if err := r.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}

	if want := []string{"a;b", "a;c", "a;d"}; !slices.Equal(got, want) {
		t.Errorf("records = %q, want %q", got, want)
	}
	if stats.Lines != 5 || stats.Accepted != 3 || stats.Ignored != 1 || stats.Fractional != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if !stats.Differential {
		t.Error("stats.Differential = false, want true")
	}
}

func TestReaderSharedStats(t *testing.T) {
	var stats Stats
	for _, in := range []string{"a 1\nbad\n", "b 2\n"} {
		r := NewReader(strings.NewReader(in), &stats)
		for r.Next() {
		}
	}
	if stats.Accepted != 2 || stats.Ignored != 1 {
		t.Errorf("stats = %+v, want 2 accepted, 1 ignored", stats)
	}
}

func TestReaderLongLine(t *testing.T) {
	frames := make([]string, 20000)
	for i := range frames {
		frames[i] = "frame"
	}
	line := strings.Join(frames, ";") + " 1"

	r := NewReader(strings.NewReader(line), nil)
	if !r.Next() {
		t.Fatalf("Next() = false, err = %v", r.Err())
	}
	if n := len(r.Record().Frames); n != len(frames) {
		t.Errorf("len(Frames) = %d, want %d", n, len(frames))
	}
}
