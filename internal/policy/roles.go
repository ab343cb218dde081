package policy

import (
	"github.com/diewo77/go-mairie/gate"
	"github.com/diewo77/go-mairie/internal/models"
)

// Resource types used in permissions.
const (
	ResourceMairie   = "mairie"
	ResourcePersonne = "personne"
	ResourceVariable = "variable"
	ResourceTemplate = "template"
	ResourceDocument = "document"
	ResourceUser     = "user"
)

// Profiles maps each role to its permissions. ADMIN can do everything;
// RESPONSABLE manages personnes and documents and reads the rest.
var Profiles = gate.NewProfileSet(
	gate.NewStaticProfile(models.RoleAdmin, gate.PermissionSuperAdmin),
	gate.NewStaticProfile(models.RoleResponsable,
		gate.NewPermission(ResourceMairie, gate.ActionList),
		gate.NewPermission(ResourceMairie, gate.ActionView),
		gate.NewPermission(ResourcePersonne, gate.WildcardAll),
		gate.NewPermission(ResourceVariable, gate.ActionList),
		gate.NewPermission(ResourceVariable, gate.ActionView),
		gate.NewPermission(ResourceTemplate, gate.ActionList),
		gate.NewPermission(ResourceTemplate, gate.ActionView),
		gate.NewPermission(ResourceDocument, gate.WildcardAll),
	),
)
