package models

// Application permissions
const (
	PermissionReadAdmin  = "admin:read"
	PermissionWriteAdmin = "admin:write"

	PermissionOrderRead  = "order:read"
	PermissionOrderWrite = "order:write"

	PermissionListingWrite = "listing:write"
	PermissionStrikeRead   = "strike:read"
	PermissionStrikeAppeal = "strike:appeal"
	PermissionDMCACounter  = "dmca:counter-notice"
)

// GetDefaultPermissions returns default permissions based on role
func GetDefaultPermissions(role string) []string {
	switch role {
	case RoleAdmin:
		return []string{
			PermissionReadAdmin,
			PermissionWriteAdmin,
			PermissionOrderRead,
			PermissionOrderWrite,
			PermissionListingWrite,
			PermissionStrikeRead,
		}
	case RoleSeller:
		return []string{
			PermissionOrderRead,
			PermissionOrderWrite,
			PermissionListingWrite,
			PermissionStrikeRead,
			PermissionStrikeAppeal,
			PermissionDMCACounter,
		}
	case RoleBuyer:
		return []string{
			PermissionOrderRead,
			PermissionOrderWrite,
		}
	default:
		return []string{}
	}
}
