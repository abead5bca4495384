package catalog

import "github.com/lcx/clusterlink/net"

var userShape = schemaObj(map[string]*schemaT{
	"user_id":  str(),
	"username": str(),
	"role_id":  str(),
	"banned":   boolean(),
}, "user_id", "username", "role_id")

var roleShape = schemaObj(map[string]*schemaT{
	"role_id":     str(),
	"name":        str(),
	"permissions": arrayOf(str()),
}, "role_id", "name", "permissions")

// UsersRoles groups control-user and role administration: CRUD on both,
// ban/whitelist flags on users, session token revocation, and the default
// role granted to a newly created user.
type UsersRoles struct {
	ListUsers    *net.Request
	GetUser      *net.Request
	CreateUser   *net.Request
	UpdateUser   *net.Request
	DeleteUser   *net.Request
	SetBanned    *net.Request
	SetWhitelisted *net.Request
	RevokeToken  *net.Request
	SubscribeUsers *net.Request

	ListRoles   *net.Request
	GetRole     *net.Request
	CreateRole  *net.Request
	UpdateRole  *net.Request
	DeleteRole  *net.Request
	SetDefaultRole *net.Request
}

func buildUsersRoles(r *net.Registry) UsersRoles {
	return UsersRoles{
		ListUsers: req(r, net.RequestSpec{
			Type:           "list_users",
			Links:          []net.LinkSpec{net.ControlController},
			Permission:     "core.user.read",
			RequestSchema:  empty(),
			ResponseSchema: schemaObj(map[string]*schemaT{"list": arrayOf(userShape)}, "list"),
		}),
		GetUser: req(r, net.RequestSpec{
			Type:           "get_user",
			Links:          []net.LinkSpec{net.ControlController},
			Permission:     "core.user.read",
			RequestSchema:  schemaObj(map[string]*schemaT{"user_id": str()}, "user_id"),
			ResponseSchema: schemaObj(map[string]*schemaT{"user": userShape}, "user"),
		}),
		CreateUser: req(r, net.RequestSpec{
			Type:       "create_user",
			Links:      []net.LinkSpec{net.ControlController},
			Permission: "core.user.write",
			RequestSchema: schemaObj(map[string]*schemaT{
				"username": str(),
				"password": str(),
				"role_id":  str(),
			}, "username", "password"),
			ResponseSchema: schemaObj(map[string]*schemaT{"user": userShape}, "user"),
		}),
		UpdateUser: req(r, net.RequestSpec{
			Type:       "update_user",
			Links:      []net.LinkSpec{net.ControlController},
			Permission: "core.user.write",
			RequestSchema: schemaObj(map[string]*schemaT{
				"user_id": str(),
				"role_id": str(),
			}, "user_id"),
			ResponseSchema: empty(),
		}),
		DeleteUser: req(r, net.RequestSpec{
			Type:           "delete_user",
			Links:          []net.LinkSpec{net.ControlController},
			Permission:     "core.user.write",
			RequestSchema:  schemaObj(map[string]*schemaT{"user_id": str()}, "user_id"),
			ResponseSchema: empty(),
		}),
		SetBanned: req(r, net.RequestSpec{
			Type:       "set_user_banned",
			Links:      []net.LinkSpec{net.ControlController},
			Permission: "core.user.write",
			RequestSchema: schemaObj(map[string]*schemaT{
				"user_id": str(),
				"banned":  boolean(),
			}, "user_id", "banned"),
			ResponseSchema: empty(),
		}),
		SetWhitelisted: req(r, net.RequestSpec{
			Type:       "set_user_whitelisted",
			Links:      []net.LinkSpec{net.ControlController},
			Permission: "core.user.write",
			RequestSchema: schemaObj(map[string]*schemaT{
				"user_id":     str(),
				"whitelisted": boolean(),
			}, "user_id", "whitelisted"),
			ResponseSchema: empty(),
		}),
		RevokeToken: req(r, net.RequestSpec{
			Type:           "revoke_user_token",
			Links:          []net.LinkSpec{net.ControlController},
			Permission:     "core.user.write",
			RequestSchema:  schemaObj(map[string]*schemaT{"user_id": str()}, "user_id"),
			ResponseSchema: empty(),
		}),
		SubscribeUsers: req(r, net.RequestSpec{
			Type:           "subscribe_user_updates",
			Links:          []net.LinkSpec{net.ControlController},
			Permission:     "core.user.read",
			RequestSchema:  empty(),
			ResponseSchema: empty(),
		}),
		ListRoles: req(r, net.RequestSpec{
			Type:           "list_roles",
			Links:          []net.LinkSpec{net.ControlController},
			Permission:     "core.role.read",
			RequestSchema:  empty(),
			ResponseSchema: schemaObj(map[string]*schemaT{"list": arrayOf(roleShape)}, "list"),
		}),
		GetRole: req(r, net.RequestSpec{
			Type:           "get_role",
			Links:          []net.LinkSpec{net.ControlController},
			Permission:     "core.role.read",
			RequestSchema:  schemaObj(map[string]*schemaT{"role_id": str()}, "role_id"),
			ResponseSchema: schemaObj(map[string]*schemaT{"role": roleShape}, "role"),
		}),
		CreateRole: req(r, net.RequestSpec{
			Type:       "create_role",
			Links:      []net.LinkSpec{net.ControlController},
			Permission: "core.role.write",
			RequestSchema: schemaObj(map[string]*schemaT{
				"name":        str(),
				"permissions": arrayOf(str()),
			}, "name", "permissions"),
			ResponseSchema: schemaObj(map[string]*schemaT{"role": roleShape}, "role"),
		}),
		UpdateRole: req(r, net.RequestSpec{
			Type:       "update_role",
			Links:      []net.LinkSpec{net.ControlController},
			Permission: "core.role.write",
			RequestSchema: schemaObj(map[string]*schemaT{
				"role_id":     str(),
				"name":        str(),
				"permissions": arrayOf(str()),
			}, "role_id"),
			ResponseSchema: empty(),
		}),
		DeleteRole: req(r, net.RequestSpec{
			Type:           "delete_role",
			Links:          []net.LinkSpec{net.ControlController},
			Permission:     "core.role.write",
			RequestSchema:  schemaObj(map[string]*schemaT{"role_id": str()}, "role_id"),
			ResponseSchema: empty(),
		}),
		SetDefaultRole: req(r, net.RequestSpec{
			Type:           "set_default_role",
			Links:          []net.LinkSpec{net.ControlController},
			Permission:     "core.role.write",
			RequestSchema:  schemaObj(map[string]*schemaT{"role_id": str()}, "role_id"),
			ResponseSchema: empty(),
		}),
	}
}
