package syncconf_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"db-syncgen/internal/schema/schematest"
	"db-syncgen/internal/syncconf"
)

func fixture() (*schematest.Provider, *schematest.Provider) {
	src := schematest.New("shop").
		AddTable("users",
			schematest.AutoPK("id", "int"),
			schematest.Unique(schematest.Col("username", "varchar(64)")),
			schematest.Col("email", "varchar(128)"),
			schematest.Col("last_login", "datetime"),
		).
		AddTable("user_profiles",
			schematest.AutoPK("id", "int"),
			schematest.Col("user_id", "int"),
			schematest.Col("profile_key", "varchar(32)"),
			schematest.Col("profile_value", "text"),
			schematest.Col("last_updated", "datetime"),
		)

	tgt := schematest.New("mirror").
		AddTable("users_dest",
			schematest.AutoPK("id", "int"),
			schematest.Unique(schematest.Col("username", "varchar(128)")),
			schematest.Col("email", "varchar(128)"),
			schematest.Col("last_login", "datetime"),
			schematest.Col("synced_at", "timestamp"),
		).
		AddTable("user_profiles_dest",
			schematest.AutoPK("id", "int"),
			schematest.Col("user_id", "int"),
			schematest.Col("profile_key", "varchar(32)"),
			schematest.Col("profile_value", "text"),
			schematest.Col("last_updated", "datetime"),
		)
	return src, tgt
}

func TestConfigureRelations_MissingTable(t *testing.T) {
	tests := []struct {
		name     string
		tables   [4]string
		wantSide string
		wantRole string
	}{
		{"source main", [4]string{"nope", "user_profiles", "users_dest", "user_profiles_dest"}, syncconf.SideSource, syncconf.RoleMain},
		{"source child", [4]string{"users", "nope", "users_dest", "user_profiles_dest"}, syncconf.SideSource, syncconf.RoleChild},
		{"target main", [4]string{"users", "user_profiles", "nope", "user_profiles_dest"}, syncconf.SideTarget, syncconf.RoleMain},
		{"target child", [4]string{"users", "user_profiles", "users_dest", "nope"}, syncconf.SideTarget, syncconf.RoleChild},
		{"wrong schema", [4]string{"other.users", "user_profiles", "users_dest", "user_profiles_dest"}, syncconf.SideSource, syncconf.RoleMain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, tgt := fixture()
			v := syncconf.NewValidator(src, tgt, nil)

			err := v.ConfigureRelations(context.Background(), tt.tables[0], tt.tables[1], tt.tables[2], tt.tables[3])

			var nf *syncconf.TableNotFoundError
			if !errors.As(err, &nf) {
				t.Fatalf("expected TableNotFoundError, got %v", err)
			}
			if nf.Side != tt.wantSide || nf.Role != tt.wantRole {
				t.Errorf("got side=%s role=%s, want %s/%s", nf.Side, nf.Role, tt.wantSide, tt.wantRole)
			}
			if v.Config().Relations() != (syncconf.TableRelation{}) {
				t.Errorf("relations must stay unset, got %+v", v.Config().Relations())
			}
			if v.Config().State() != syncconf.StateEmpty {
				t.Errorf("state = %s, want empty", v.Config().State())
			}
		})
	}
}

func TestConfigureRelations_SchemaMismatch(t *testing.T) {
	t.Run("type differs", func(t *testing.T) {
		src, tgt := fixture()
		tgt.AddTable("users_dest",
			schematest.AutoPK("id", "int"),
			schematest.Col("username", "varchar(64)"),
			schematest.Col("email", "text"),
			schematest.Col("last_login", "datetime"),
		)
		v := syncconf.NewValidator(src, tgt, nil)

		err := v.ConfigureRelations(context.Background(), "users", "user_profiles", "users_dest", "user_profiles_dest")

		var mm *syncconf.SchemaMismatchError
		if !errors.As(err, &mm) {
			t.Fatalf("expected SchemaMismatchError, got %v", err)
		}
		if mm.Column != "email" || mm.Pair != syncconf.RoleMain {
			t.Errorf("mismatch = %+v", mm)
		}
		if !strings.Contains(err.Error(), "varchar(128)") || !strings.Contains(err.Error(), "text") {
			t.Errorf("error should name both types: %v", err)
		}
	})

	t.Run("column missing in child", func(t *testing.T) {
		src, tgt := fixture()
		tgt.AddTable("user_profiles_dest",
			schematest.AutoPK("id", "int"),
			schematest.Col("user_id", "int"),
			schematest.Col("profile_key", "varchar(32)"),
		)
		v := syncconf.NewValidator(src, tgt, nil)

		err := v.ConfigureRelations(context.Background(), "users", "user_profiles", "users_dest", "user_profiles_dest")

		var mm *syncconf.SchemaMismatchError
		if !errors.As(err, &mm) {
			t.Fatalf("expected SchemaMismatchError, got %v", err)
		}
		if !mm.Missing || mm.Column != "profile_value" || mm.Pair != syncconf.RoleChild {
			t.Errorf("mismatch = %+v", mm)
		}
	})
}

func TestConfigureRelations_ExtraTargetColumnsAllowed(t *testing.T) {
	src, tgt := fixture()
	v := syncconf.NewValidator(src, tgt, nil)

	if err := v.ConfigureRelations(context.Background(), "shop.users", "user_profiles", "mirror.users_dest", "user_profiles_dest"); err != nil {
		t.Fatalf("ConfigureRelations: %v", err)
	}
	if got := v.Config().State(); got != syncconf.StateRelationsSet {
		t.Errorf("state = %s", got)
	}
	if got := v.Config().Relations().SourceMain; got != "shop.users" {
		t.Errorf("SourceMain = %q", got)
	}
}

func TestConfigureRelations_ReadsFreshMetadata(t *testing.T) {
	src, tgt := fixture()
	v := syncconf.NewValidator(src, tgt, nil)
	ctx := context.Background()

	if err := v.ConfigureRelations(ctx, "users", "user_profiles", "users_dest", "user_profiles_dest"); err != nil {
		t.Fatalf("ConfigureRelations: %v", err)
	}
	tgt.DropTable("user_profiles_dest")

	err := v.ConfigureRelations(ctx, "users", "user_profiles", "users_dest", "user_profiles_dest")
	var nf *syncconf.TableNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected the dropped table to be noticed, got %v", err)
	}
	if v.Config().State() != syncconf.StateRelationsSet {
		t.Errorf("failed step must keep the previous state, got %s", v.Config().State())
	}
}

func TestStepsRequireRelations(t *testing.T) {
	src, tgt := fixture()
	v := syncconf.NewValidator(src, tgt, nil)
	ctx := context.Background()

	if err := v.ConfigureKeys(ctx, "username", "user_id", "profile_key"); !errors.Is(err, syncconf.ErrRelationsNotConfigured) {
		t.Errorf("ConfigureKeys before relations: got %v", err)
	}
	if err := v.ConfigureScope(ctx, "", nil, nil); !errors.Is(err, syncconf.ErrRelationsNotConfigured) {
		t.Errorf("ConfigureScope before relations: got %v", err)
	}
	if _, err := v.Config().Ready(); !errors.Is(err, syncconf.ErrNotReady) {
		t.Errorf("Ready on empty draft: got %v", err)
	}
}

func TestConfigureKeys(t *testing.T) {
	tests := []struct {
		name               string
		main, fk, childKey string
		wantKind, wantTab  string
	}{
		{"ok", "username", "user_id", "profile_key", "", ""},
		{"main key missing", "login", "user_id", "profile_key", "main unique key", "users"},
		{"foreign key missing", "username", "owner_id", "profile_key", "child foreign key", "user_profiles"},
		{"child key missing", "username", "user_id", "key", "child unique key", "user_profiles"},
		{"empty key", "", "user_id", "profile_key", "main unique key", "users"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, tgt := fixture()
			v := syncconf.NewValidator(src, tgt, nil)
			ctx := context.Background()
			if err := v.ConfigureRelations(ctx, "users", "user_profiles", "users_dest", "user_profiles_dest"); err != nil {
				t.Fatal(err)
			}

			err := v.ConfigureKeys(ctx, tt.main, tt.fk, tt.childKey)
			if tt.wantKind == "" {
				if err != nil {
					t.Fatalf("ConfigureKeys: %v", err)
				}
				if v.Config().State() != syncconf.StateKeysSet {
					t.Errorf("state = %s", v.Config().State())
				}
				return
			}

			var kn *syncconf.KeyNotFoundError
			if !errors.As(err, &kn) {
				t.Fatalf("expected KeyNotFoundError, got %v", err)
			}
			if kn.Kind != tt.wantKind || kn.Table != tt.wantTab {
				t.Errorf("got %+v", kn)
			}
			if v.Config().Keys() != (syncconf.SyncKeys{}) {
				t.Errorf("keys must stay unset, got %+v", v.Config().Keys())
			}
		})
	}
}

func TestConfigureKeys_TargetOnlyMissing(t *testing.T) {
	src, tgt := fixture()
	src.AddTable("users",
		schematest.AutoPK("id", "int"),
		schematest.Col("username", "varchar(64)"),
		schematest.Col("email", "varchar(128)"),
		schematest.Col("last_login", "datetime"),
	)
	tgt.AddTable("users_dest",
		schematest.AutoPK("id", "int"),
		schematest.Col("username", "varchar(64)"),
		schematest.Col("email", "varchar(128)"),
		schematest.Col("last_login", "datetime"),
		schematest.Col("code", "varchar(16)"),
	)
	v := syncconf.NewValidator(src, tgt, nil)
	ctx := context.Background()
	if err := v.ConfigureRelations(ctx, "users", "user_profiles", "users_dest", "user_profiles_dest"); err != nil {
		t.Fatal(err)
	}

	// code exists only on the target side
	err := v.ConfigureKeys(ctx, "code", "user_id", "profile_key")
	var kn *syncconf.KeyNotFoundError
	if !errors.As(err, &kn) || kn.Table != "users" {
		t.Fatalf("expected missing key in source users, got %v", err)
	}
}

func TestConfigureScope(t *testing.T) {
	src, tgt := fixture()
	v := syncconf.NewValidator(src, tgt, nil)
	ctx := context.Background()
	if err := v.ConfigureRelations(ctx, "users", "user_profiles", "users_dest", "user_profiles_dest"); err != nil {
		t.Fatal(err)
	}

	t.Run("unknown excluded field", func(t *testing.T) {
		err := v.ConfigureScope(ctx, "", []string{"last_login", "nickname"}, nil)
		var kn *syncconf.KeyNotFoundError
		if !errors.As(err, &kn) {
			t.Fatalf("expected KeyNotFoundError, got %v", err)
		}
		if kn.Field != "nickname" || kn.Table != "users_dest" || kn.Kind != "main exclude field" {
			t.Errorf("got %+v", kn)
		}
		if v.Config().State() != syncconf.StateRelationsSet {
			t.Errorf("state = %s", v.Config().State())
		}
	})

	t.Run("target-only field can be excluded", func(t *testing.T) {
		if err := v.ConfigureScope(ctx, " is_active = 1 ", []string{"synced_at"}, []string{"last_updated", " "}); err != nil {
			t.Fatalf("ConfigureScope: %v", err)
		}
		scope := v.Config().Scope()
		if scope.FilterCondition != "is_active = 1" {
			t.Errorf("filter = %q", scope.FilterCondition)
		}
		if len(scope.ExcludeFieldsChild) != 1 || scope.ExcludeFieldsChild[0] != "last_updated" {
			t.Errorf("exclude child = %v", scope.ExcludeFieldsChild)
		}
		if v.Config().State() != syncconf.StateScopeSet {
			t.Errorf("state = %s", v.Config().State())
		}
	})
}

func TestReady(t *testing.T) {
	src, tgt := fixture()
	v := syncconf.NewValidator(src, tgt, nil)
	ctx := context.Background()

	if err := v.ConfigureRelations(ctx, "users", "user_profiles", "users_dest", "user_profiles_dest"); err != nil {
		t.Fatal(err)
	}
	if err := v.ConfigureScope(ctx, "", []string{"last_login"}, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := v.Config().Ready(); !errors.Is(err, syncconf.ErrNotReady) {
		t.Fatalf("scope only should not be ready: %v", err)
	}
	if err := v.ConfigureKeys(ctx, "username", "user_id", "profile_key"); err != nil {
		t.Fatal(err)
	}

	cfg, err := v.Config().Ready()
	if err != nil {
		t.Fatalf("Ready: %v", err)
	}
	if !cfg.IsReady() || cfg.Keys().MainUniqueKey != "username" {
		t.Errorf("cfg = %+v", cfg)
	}

	// the frozen config does not share slices with the draft
	scope := cfg.Scope()
	scope.ExcludeFieldsMain[0] = "email"
	if cfg.Scope().ExcludeFieldsMain[0] != "last_login" {
		t.Error("Config must be read-only")
	}

	if (syncconf.Config{}).IsReady() {
		t.Error("zero Config must not be ready")
	}
}

func TestConfigureRelations_ChangeResetsKeysAndScope(t *testing.T) {
	src, tgt := fixture()
	tgt.AddTable("users_bak",
		schematest.AutoPK("id", "int"),
		schematest.Col("username", "varchar(64)"),
		schematest.Col("email", "varchar(128)"),
		schematest.Col("last_login", "datetime"),
	)
	v := syncconf.NewValidator(src, tgt, nil)
	ctx := context.Background()

	if err := v.ConfigureRelations(ctx, "users", "user_profiles", "users_dest", "user_profiles_dest"); err != nil {
		t.Fatal(err)
	}
	if err := v.ConfigureKeys(ctx, "username", "user_id", "profile_key"); err != nil {
		t.Fatal(err)
	}

	// same tables again keeps the keys
	if err := v.ConfigureRelations(ctx, "users", "user_profiles", "users_dest", "user_profiles_dest"); err != nil {
		t.Fatal(err)
	}
	if v.Config().State() != syncconf.StateKeysSet {
		t.Errorf("state = %s, want keys set", v.Config().State())
	}

	if err := v.ConfigureRelations(ctx, "users", "user_profiles", "users_bak", "user_profiles_dest"); err != nil {
		t.Fatal(err)
	}
	if v.Config().State() != syncconf.StateRelationsSet {
		t.Errorf("state = %s, want relations set", v.Config().State())
	}
}

func TestProviderFailureIsAnError(t *testing.T) {
	src, tgt := fixture()
	tgt.Err = errors.New("connection reset")
	v := syncconf.NewValidator(src, tgt, nil)

	err := v.ConfigureRelations(context.Background(), "users", "user_profiles", "users_dest", "user_profiles_dest")
	if err == nil || !strings.Contains(err.Error(), "connection reset") {
		t.Fatalf("expected provider failure, got %v", err)
	}
	var nf *syncconf.TableNotFoundError
	if errors.As(err, &nf) {
		t.Error("a provider failure must not look like a missing table")
	}
}
