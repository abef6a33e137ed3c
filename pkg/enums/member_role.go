package enums

import "fmt"

type MemberRole string

const (
	MemberRoleMerchant MemberRole = "merchant"
	MemberRoleAdmin    MemberRole = "admin"
	MemberRoleRider    MemberRole = "rider"
)

func (r MemberRole) String() string { return string(r) }

func (r MemberRole) IsValid() bool {
	switch r {
	case MemberRoleMerchant, MemberRoleAdmin, MemberRoleRider:
		return true
	}
	return false
}

func ParseMemberRole(raw string) (MemberRole, error) {
	r := MemberRole(raw)
	if !r.IsValid() {
		return "", fmt.Errorf("invalid member role: %q", raw)
	}
	return r, nil
}
