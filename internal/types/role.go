package types

import "fmt"

// RoleCategory is the job family a resume is scored against.
type RoleCategory string

const (
	RoleEngineering         RoleCategory = "Engineering"
	RoleSoftwareEngineering RoleCategory = "Software Engineering"
	RoleMarketing           RoleCategory = "Marketing"
	RoleProductManagement   RoleCategory = "Product Management"
	RoleDataScience         RoleCategory = "Data Science"
	RoleGeneral             RoleCategory = "General"
)

// RoleCategories lists every category in classification order.
var RoleCategories = []RoleCategory{
	RoleEngineering,
	RoleSoftwareEngineering,
	RoleMarketing,
	RoleProductManagement,
	RoleDataScience,
	RoleGeneral,
}

// Valid reports whether r is a known category.
func (r RoleCategory) Valid() bool {
	for _, c := range RoleCategories {
		if c == r {
			return true
		}
	}
	return false
}

// ParseRoleCategory converts a string into a RoleCategory.
func ParseRoleCategory(s string) (RoleCategory, error) {
	r := RoleCategory(s)
	if !r.Valid() {
		return "", fmt.Errorf("invalid role category %q", s)
	}
	return r, nil
}
