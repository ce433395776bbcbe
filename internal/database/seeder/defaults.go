package seeder

func Defaults() []Seeder {
	return []Seeder{
		DemoUsersSeeder{Password: "password123"},
	}
}
