package domain

import "testing"

func TestNormalizeMembers(t *testing.T) {
	g := &Group{
		LeadID:    "m1",
		MemberIDs: []string{"e1", "e1", "", "e2", "m1"},
	}
	g.NormalizeMembers()

	want := []string{"m1", "e1", "e2"}
	if len(g.MemberIDs) != len(want) {
		t.Fatalf("expected %v, got %v", want, g.MemberIDs)
	}
	for i, id := range want {
		if g.MemberIDs[i] != id {
			t.Fatalf("expected %v, got %v", want, g.MemberIDs)
		}
	}
}

func TestHasMemberHasTask(t *testing.T) {
	g := &Group{
		MemberIDs: []string{"e1"},
		Tasks:     []GroupTask{{TaskID: "t1"}},
	}
	if !g.HasMember("e1") || g.HasMember("e2") {
		t.Error("HasMember misbehaving")
	}
	if !g.HasTask("t1") || g.HasTask("t2") {
		t.Error("HasTask misbehaving")
	}
}

func TestCanAssignRole(t *testing.T) {
	cases := []struct {
		actor, target string
		want          bool
	}{
		{RoleAdmin, RoleManager, true},
		{RoleAdmin, RoleEmployee, true},
		{RoleAdmin, RoleAdmin, false},
		{RoleManager, RoleEmployee, true},
		{RoleManager, RoleManager, false},
		{RoleEmployee, RoleEmployee, false},
		{"Manager", " EMPLOYEE ", true},
	}
	for _, c := range cases {
		if got := CanAssignRole(c.actor, c.target); got != c.want {
			t.Errorf("CanAssignRole(%q,%q) = %v, want %v", c.actor, c.target, got, c.want)
		}
	}
}
