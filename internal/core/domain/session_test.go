package domain

import "testing"

func TestSession_Step(t *testing.T) {
	cases := []struct {
		name string
		sess *Session
		want Step
	}{
		{"nil session", nil, StepLogin},
		{"no token", &Session{}, StepLogin},
		{"token only", &Session{AccessToken: "a"}, StepSelectRole},
		{"token and role", &Session{AccessToken: "a", SelectedRole: "dgd"}, StepSelectFiliere},
		{"complete", &Session{AccessToken: "a", SelectedRole: "dgd", SelectedFiliere: FiliereOr}, StepDashboard},
		// A stored filière without a role is mid-onboarding at role selection.
		{"filiere without role", &Session{AccessToken: "a", SelectedFiliere: FiliereOr}, StepSelectRole},
	}
	for _, tc := range cases {
		if got := tc.sess.Step(); got != tc.want {
			t.Fatalf("%s: Step() = %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestStep_Back(t *testing.T) {
	if prev, ok := StepDashboard.Back(); !ok || prev != StepSelectFiliere {
		t.Fatalf("dashboard should step back to filiere selection, got %s/%v", prev, ok)
	}
	if prev, ok := StepSelectFiliere.Back(); !ok || prev != StepSelectRole {
		t.Fatalf("filiere selection should step back to role selection, got %s/%v", prev, ok)
	}
	if _, ok := StepSelectRole.Back(); ok {
		t.Fatalf("role selection is the back-navigation floor")
	}
	if _, ok := StepLogin.Back(); ok {
		t.Fatalf("login has nothing to step back to")
	}
}

func TestParseFiliere(t *testing.T) {
	for in, want := range map[string]Filiere{
		"OR": FiliereOr, "or": FiliereOr, " pierre ": FilierePierre, "BOIS": FiliereBois,
	} {
		got, err := ParseFiliere(in)
		if err != nil || got != want {
			t.Fatalf("ParseFiliere(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseFiliere("CHARBON"); err != ErrInvalidFiliere {
		t.Fatalf("expected ErrInvalidFiliere, got %v", err)
	}
}

func TestSession_Clearers(t *testing.T) {
	sess := &Session{AccessToken: "a", RefreshToken: "r", SelectedRole: "com", SelectedFiliere: FiliereOr}

	sess.ClearFiliere()
	if sess.SelectedRole != "com" || sess.SelectedFiliere != "" {
		t.Fatalf("ClearFiliere must keep the role: %+v", sess)
	}

	sess.SelectedFiliere = FiliereOr
	sess.ClearProfile()
	if sess.SelectedRole != "" || sess.SelectedFiliere != "" {
		t.Fatalf("ClearProfile must clear both: %+v", sess)
	}

	sess.ClearTokens()
	if sess.Authenticated() {
		t.Fatalf("ClearTokens must end the authenticated session")
	}
}
