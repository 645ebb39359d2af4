package utils

// HasRole checks if a member's role list contains the given role ID.
func HasRole(memberRoles []string, roleID string) bool {
	for _, r := range memberRoles {
		if r == roleID {
			return true
		}
	}
	return false
}
