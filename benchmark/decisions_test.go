package benchmark

import (
	"io"
	"log"
	"testing"

	"github.com/taskhub/rbac/pkg/authz"
	"github.com/taskhub/rbac/pkg/seed"
	"github.com/taskhub/rbac/pkg/store/storetest"
)

// Benchmarks the decision service against a fully seeded catalog. Every
// check re-fetches the role bundle from the store, so these numbers track
// the cost of a single decision end to end.

func seededDecider(b *testing.B) (*storetest.Memory, string) {
	b.Helper()

	mem := storetest.New()
	seeder := seed.NewSeeder(mem, log.New(io.Discard, "", 0))
	if _, err := seeder.Run(seed.Defaults()); err != nil {
		b.Fatalf("seeding failed: %v", err)
	}

	role, err := mem.Roles().GetRoleByName("leadership")
	if err != nil {
		b.Fatalf("seeded role missing: %v", err)
	}
	return mem, role.ID
}

func BenchmarkHasPermission(b *testing.B) {
	mem, roleID := seededDecider(b)

	decider := authz.NewDecider(mem.Roles())

	b.Run("held", func(b *testing.B) {
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			if _, err := decider.HasPermission(roleID, "task:view:department"); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("missing", func(b *testing.B) {
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			if _, err := decider.HasPermission(roleID, "settings:edit:system"); err != nil {
				b.Fatal(err)
			}
		}
	})
}

func BenchmarkHasAllPermissions(b *testing.B) {
	mem, roleID := seededDecider(b)
	decider := authz.NewDecider(mem.Roles())

	required := []string{
		"task:create",
		"task:view:department",
		"task:delegate:all",
		"department:assign_users",
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := decider.HasAllPermissions(roleID, required); err != nil {
			b.Fatal(err)
		}
	}
}
