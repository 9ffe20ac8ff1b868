package hypr_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/hyprstream/hyprstream/internal/hypr"
	"github.com/hyprstream/hyprstream/internal/hypr/hyprtest"
)

func TestCreateHeadless_PicksHighestSuffix(t *testing.T) {
	fake := hyprtest.New("eDP-1")
	// Stale outputs left behind by an earlier session.
	fake.Monitors = append(fake.Monitors, "HEADLESS-2", "HEADLESS-10", "HEADLESS-x")
	fake.NextHeadless = 11

	name, err := hypr.CreateHeadless(fake)
	if err != nil {
		t.Fatalf("CreateHeadless: %v", err)
	}
	if name != "HEADLESS-11" {
		t.Fatalf("CreateHeadless = %q, want %q", name, "HEADLESS-11")
	}
	if want := []string{"monitors all", "monitors all"}; !reflect.DeepEqual(fake.Queries, want) {
		t.Fatalf("queries = %q, want %q", fake.Queries, want)
	}
}

func TestCreateHeadless_RejectedReply(t *testing.T) {
	fake := hyprtest.New("eDP-1")
	fake.RejectOn("output create", "Could not create output")

	_, err := hypr.CreateHeadless(fake)
	var perr *hypr.ProtocolError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v, want *ProtocolError", err)
	}
	if len(fake.Queries) != 1 {
		t.Fatalf("monitors queried after failed create: %q", fake.Queries)
	}
}

func TestCreateHeadless_NoneFound(t *testing.T) {
	fake := hyprtest.New("eDP-1")
	// Answer "ok" without actually creating anything.
	fake.RejectOn("output create", "ok")

	if _, err := hypr.CreateHeadless(fake); err == nil {
		t.Fatal("expected error when no headless output is listed")
	}
}

func TestCreateHeadless_IgnoresPreexistingOutputs(t *testing.T) {
	fake := hyprtest.New("eDP-1")
	// A leftover output with a higher suffix than the one about to be created.
	fake.Monitors = append(fake.Monitors, "HEADLESS-7")
	fake.NextHeadless = 3

	name, err := hypr.CreateHeadless(fake)
	if err != nil {
		t.Fatalf("CreateHeadless: %v", err)
	}
	if name != "HEADLESS-3" {
		t.Fatalf("CreateHeadless = %q, want %q", name, "HEADLESS-3")
	}
}

func TestCreateHeadless_ListingFailsBeforeCreate(t *testing.T) {
	fake := hyprtest.New("eDP-1")
	fake.FailOn("monitors all", errors.New("socket read failed"))

	if _, err := hypr.CreateHeadless(fake); err == nil {
		t.Fatal("expected error")
	}
	if got := fake.CallsWithPrefix("output create"); len(got) != 0 {
		t.Fatalf("output created without a usable listing: %q", got)
	}
	if !reflect.DeepEqual(fake.Monitors, []string{"eDP-1"}) {
		t.Fatalf("monitors = %q", fake.Monitors)
	}
}

func TestCreateHeadless_RetriesListingAfterCreate(t *testing.T) {
	fake := hyprtest.New("eDP-1")
	fake.FailNth("monitors all", 2, errors.New("socket read failed"))

	name, err := hypr.CreateHeadless(fake)
	if err != nil {
		t.Fatalf("CreateHeadless: %v", err)
	}
	if name != "HEADLESS-1" {
		t.Fatalf("CreateHeadless = %q, want %q", name, "HEADLESS-1")
	}
	if len(fake.Queries) != 3 {
		t.Fatalf("queries = %q", fake.Queries)
	}
}

func TestMutatingCommands_Wire(t *testing.T) {
	fake := hyprtest.New("eDP-1", "1", "9")
	fake.Monitors = append(fake.Monitors, "HEADLESS-1")

	steps := []struct {
		run  func() error
		want string
	}{
		{func() error { return hypr.EnableMirror(fake, "HEADLESS-1", "eDP-1") }, "keyword monitor HEADLESS-1,preferred,auto,1,mirror,eDP-1"},
		{func() error { return hypr.ParkOffscreen(fake, "HEADLESS-1", "1920x1080@60") }, "keyword monitor HEADLESS-1,1920x1080@60,-9999x0,1"},
		{func() error { return hypr.BindWorkspace(fake, "9", "HEADLESS-1") }, "keyword workspace 9,monitor:HEADLESS-1,default:true"},
		{func() error { return hypr.MoveWorkspace(fake, "9", "HEADLESS-1") }, "dispatch moveworkspacetomonitor 9 HEADLESS-1"},
		{func() error { return hypr.RemoveHeadless(fake, "HEADLESS-1") }, "output remove HEADLESS-1"},
	}
	for _, step := range steps {
		fake.ResetCalls()
		if err := step.run(); err != nil {
			t.Fatalf("%s: %v", step.want, err)
		}
		if len(fake.Calls) != 1 || fake.Calls[0] != step.want {
			t.Fatalf("calls = %q, want [%q]", fake.Calls, step.want)
		}
	}
}

func TestMoveWorkspace_NonOKReplyFails(t *testing.T) {
	fake := hyprtest.New("eDP-1", "1")

	err := hypr.MoveWorkspace(fake, "1", "DP-9")
	var perr *hypr.ProtocolError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v, want *ProtocolError", err)
	}
	if perr.Reply != "monitor not found" {
		t.Fatalf("ProtocolError.Reply = %q", perr.Reply)
	}
}

func TestDetectPhysical(t *testing.T) {
	fake := hyprtest.New("eDP-1")
	fake.Monitors = []string{"HEADLESS-1", "DP-2", "eDP-1"}

	got, err := hypr.DetectPhysical(fake)
	if err != nil {
		t.Fatalf("DetectPhysical: %v", err)
	}
	if got != "DP-2" {
		t.Fatalf("DetectPhysical = %q, want %q", got, "DP-2")
	}

	fake.Monitors = []string{"HEADLESS-1"}
	if _, err := hypr.DetectPhysical(fake); err == nil {
		t.Fatal("expected error with only headless outputs")
	}
}

func TestActiveWorkspaceAndSnapshot(t *testing.T) {
	fake := hyprtest.New("eDP-1", "1", "2")
	fake.Workspaces["special:scratch"] = "DP-2"
	fake.Active = "2"

	ws, err := hypr.ActiveWorkspaceName(fake)
	if err != nil {
		t.Fatalf("ActiveWorkspaceName: %v", err)
	}
	if ws != "2" {
		t.Fatalf("ActiveWorkspaceName = %q, want %q", ws, "2")
	}

	snap, err := hypr.SnapshotWorkspaces(fake)
	if err != nil {
		t.Fatalf("SnapshotWorkspaces: %v", err)
	}
	want := hypr.Snapshot{"1": "eDP-1", "2": "eDP-1", "special:scratch": "DP-2"}
	if !reflect.DeepEqual(snap, want) {
		t.Fatalf("SnapshotWorkspaces = %v, want %v", snap, want)
	}
}

func TestPlanRestore(t *testing.T) {
	tests := []struct {
		name   string
		before hypr.Snapshot
		after  hypr.Snapshot
		want   []hypr.Move
	}{
		{
			name:   "stolen workspace goes back, streaming workspace stays",
			before: hypr.Snapshot{"1": "eDP-1", "9": "eDP-1"},
			after:  hypr.Snapshot{"1": "HEADLESS-1", "9": "HEADLESS-1"},
			want:   []hypr.Move{{Workspace: "1", Monitor: "eDP-1"}},
		},
		{
			name:   "no earlier host is left alone",
			before: hypr.Snapshot{"9": "eDP-1"},
			after:  hypr.Snapshot{"1": "HEADLESS-1", "9": "HEADLESS-1"},
			want:   nil,
		},
		{
			name:   "earlier host was headless",
			before: hypr.Snapshot{"3": "HEADLESS-0", "4": "HEADLESS-1"},
			after:  hypr.Snapshot{"3": "HEADLESS-1", "4": "HEADLESS-1"},
			want:   nil,
		},
		{
			name:   "workspaces on other monitors untouched",
			before: hypr.Snapshot{"1": "eDP-1", "2": "DP-2"},
			after:  hypr.Snapshot{"1": "eDP-1", "2": "HEADLESS-1"},
			want:   []hypr.Move{{Workspace: "2", Monitor: "DP-2"}},
		},
		{
			name:   "sorted by workspace",
			before: hypr.Snapshot{"b": "DP-2", "a": "eDP-1", "c": "eDP-1"},
			after:  hypr.Snapshot{"b": "HEADLESS-1", "a": "HEADLESS-1", "c": "HEADLESS-1"},
			want: []hypr.Move{
				{Workspace: "a", Monitor: "eDP-1"},
				{Workspace: "b", Monitor: "DP-2"},
				{Workspace: "c", Monitor: "eDP-1"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := hypr.PlanRestore(tt.before, tt.after, "HEADLESS-1", "9")
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("PlanRestore = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRestoreStolen_MovesBackExactlyOnce(t *testing.T) {
	fake := hyprtest.New("eDP-1", "1", "9")
	before := hypr.Snapshot{"1": "eDP-1", "9": "eDP-1"}
	fake.StealOnCreate = []string{"1", "9"}

	headless, err := hypr.CreateHeadless(fake)
	if err != nil {
		t.Fatalf("CreateHeadless: %v", err)
	}
	fake.ResetCalls()

	moved, err := hypr.RestoreStolen(fake, before, headless, "9")
	if err != nil {
		t.Fatalf("RestoreStolen: %v", err)
	}
	if want := []hypr.Move{{Workspace: "1", Monitor: "eDP-1"}}; !reflect.DeepEqual(moved, want) {
		t.Fatalf("moved = %+v, want %+v", moved, want)
	}
	if want := []string{"dispatch moveworkspacetomonitor 1 eDP-1"}; !reflect.DeepEqual(fake.Calls, want) {
		t.Fatalf("calls = %q, want %q", fake.Calls, want)
	}
	if fake.Workspaces["9"] != headless {
		t.Fatalf("streaming workspace moved off %s: %q", headless, fake.Workspaces["9"])
	}
}

func TestRestoreStolen_ContinuesPastFailures(t *testing.T) {
	fake := hyprtest.New("eDP-1", "1", "2", "9")
	before := hypr.Snapshot{"1": "eDP-1", "2": "eDP-1", "9": "eDP-1"}
	fake.StealOnCreate = []string{"1", "2"}

	headless, err := hypr.CreateHeadless(fake)
	if err != nil {
		t.Fatalf("CreateHeadless: %v", err)
	}
	fake.RejectOn("dispatch moveworkspacetomonitor 1 ", "nope")

	moved, err := hypr.RestoreStolen(fake, before, headless, "9")
	if err == nil {
		t.Fatal("expected first move error to be reported")
	}
	if want := []hypr.Move{{Workspace: "2", Monitor: "eDP-1"}}; !reflect.DeepEqual(moved, want) {
		t.Fatalf("moved = %+v, want %+v", moved, want)
	}
}
