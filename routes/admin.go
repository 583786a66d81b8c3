package routes

import (
	"github.com/kataras/iris/v12"

	"github.com/abhijitkayal/safar-hub-sub001/models"
	"github.com/abhijitkayal/safar-hub-sub001/storage"
	"github.com/abhijitkayal/safar-hub-sub001/utils"
)

func pageParams(ctx iris.Context) (page, perPage int) {
	page = ctx.URLParamIntDefault("page", 1)
	if page < 1 {
		page = 1
	}
	perPage = ctx.URLParamIntDefault("per_page", 25)
	if perPage < 1 || perPage > 100 {
		perPage = 25
	}
	return page, perPage
}

// AdminListUsers returns a paginated user listing.
//
// GET /api/admin/users?page=&per_page=
func AdminListUsers(ctx iris.Context) {
	page, perPage := pageParams(ctx)

	var total int64
	if err := storage.DB.Model(&models.User{}).Count(&total).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var users []models.User
	res := storage.DB.
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&users)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, users, page, perPage, total)
}

// AdminListAuditLogs returns the audit trail, newest first, optionally
// filtered by resource type.
//
// GET /api/admin/audit?resourceType=&page=&per_page=
func AdminListAuditLogs(ctx iris.Context) {
	page, perPage := pageParams(ctx)

	query := storage.DB.Model(&models.AuditLog{})
	if resourceType := ctx.URLParam("resourceType"); resourceType != "" {
		query = query.Where("resource_type = ?", resourceType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var logs []models.AuditLog
	res := query.
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&logs)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, logs, page, perPage, total)
}
