package rbac

import "testing"

func TestDefaultPolicy(t *testing.T) {
	c := NewChecker(nil)

	cases := []struct {
		role, perm string
		want       bool
	}{
		{"student", "submission:create", true},
		{"student", "submission:view-own", true},
		{"student", "quiz:view-analytics", false},
		{"student", "quiz:manage", false},
		{"teacher", "quiz:view-analytics", true},
		{"teacher", "question:manage", true},
		{"teacher", "user:manage", false},
		{"admin", "user:manage", true},
		{"admin", "anything:at-all", true},
		{"ghost-role", "quiz:view", false},
	}
	for _, tc := range cases {
		if got := c.Has(tc.role, tc.perm); got != tc.want {
			t.Errorf("Has(%q,%q) = %v, want %v", tc.role, tc.perm, got, tc.want)
		}
	}
}

func TestWildcardPrefix(t *testing.T) {
	c := NewChecker(map[string][]string{"auditor": {"submission:*"}})
	if !c.Has("auditor", "submission:view-own") {
		t.Fatal("prefix wildcard should match")
	}
	if c.Has("auditor", "quiz:view") {
		t.Fatal("prefix wildcard must not match other namespaces")
	}
	if !c.Any("auditor", "quiz:view", "submission:create") {
		t.Fatal("Any should pass when one permission matches")
	}
}
