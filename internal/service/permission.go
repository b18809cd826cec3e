package service

import (
	"errors"
	"fmt"
	"os"

	"contact-directory-backend/internal/database/models"
	apperrors "contact-directory-backend/internal/errors"
	"contact-directory-backend/internal/repository"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Action is a permission-gated operation name.
type Action string

const (
	ActionViewContacts       Action = "view contacts"
	ActionCreateContacts     Action = "create contacts"
	ActionEditContacts       Action = "edit contacts"
	ActionDeleteContacts     Action = "delete contacts"
	ActionManageOrganization Action = "manage organization"
	ActionInviteUsers        Action = "invite users"
	ActionRemoveUsers        Action = "remove users"
)

// Policy maps a membership role to the actions it may perform.
type Policy map[models.MembershipRole][]Action

// DefaultPolicy returns the built-in role/action assignment: Admin holds every
// action, Member can view, create and edit contacts only.
func DefaultPolicy() Policy {
	return Policy{
		models.MembershipRoleAdmin: {
			ActionViewContacts,
			ActionCreateContacts,
			ActionEditContacts,
			ActionDeleteContacts,
			ActionManageOrganization,
			ActionInviteUsers,
			ActionRemoveUsers,
		},
		models.MembershipRoleMember: {
			ActionViewContacts,
			ActionCreateContacts,
			ActionEditContacts,
		},
	}
}

type policyFile struct {
	Roles map[string][]string `yaml:"roles"`
}

// LoadPolicy reads a role→actions policy from a YAML file. A missing file is
// not an error: the built-in defaults apply.
func LoadPolicy(path string) (Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultPolicy(), nil
		}
		return nil, fmt.Errorf("read policy file: %w", err)
	}

	var file policyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse policy file: %w", err)
	}
	if len(file.Roles) == 0 {
		return DefaultPolicy(), nil
	}

	policy := make(Policy, len(file.Roles))
	for roleName, actions := range file.Roles {
		role := models.MembershipRole(roleName)
		if !role.Valid() {
			return nil, fmt.Errorf("policy file: unknown role %q", roleName)
		}
		for _, a := range actions {
			policy[role] = append(policy[role], Action(a))
		}
	}
	return policy, nil
}

// PermissionGate decides (user, organization, action) → allow/deny from the
// user's membership role in that organization. The membership role is the only
// role source consulted.
type PermissionGate struct {
	memberships repository.MembershipRepositoryInterface
	allowed     map[models.MembershipRole]map[Action]bool
}

// NewPermissionGate creates a permission gate from a policy.
func NewPermissionGate(memberships repository.MembershipRepositoryInterface, policy Policy) *PermissionGate {
	if policy == nil {
		policy = DefaultPolicy()
	}
	allowed := make(map[models.MembershipRole]map[Action]bool, len(policy))
	for role, actions := range policy {
		set := make(map[Action]bool, len(actions))
		for _, a := range actions {
			set[a] = true
		}
		allowed[role] = set
	}
	return &PermissionGate{memberships: memberships, allowed: allowed}
}

// Authorize allows the action or returns a ForbiddenError. Non-members are
// denied the same way as members lacking the action; the error never says
// which case applied.
func (g *PermissionGate) Authorize(userID, orgID uuid.UUID, action Action) error {
	membership, err := g.memberships.GetByUserAndOrg(userID, orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewForbiddenError("you do not have permission to perform this action")
		}
		return fmt.Errorf("failed to check membership: %w", err)
	}

	if !g.allowed[membership.Role][action] {
		return apperrors.NewForbiddenError("you do not have permission to perform this action")
	}
	return nil
}
