package rbac

// Default policy. Students own the learner flow; teachers additionally
// manage course content and read quiz analytics; admin holds everything,
// including user and role management.
var RolePermissions = map[string][]string{
	"student": {
		"course:view",
		"lesson:view",
		"lesson:complete",
		"quiz:view",
		"submission:create",
		"submission:view-own",
	},
	"teacher": {
		"course:view",
		"course:manage",
		"lesson:view",
		"lesson:manage",
		"lesson:complete",
		"quiz:view",
		"quiz:manage",
		"quiz:view-analytics",
		"question:manage",
		"choice:manage",
		"category:manage",
		"tag:manage",
		"submission:create",
		"submission:view-own",
	},
	"admin": {
		"*",
	},
}
