package model

// 上传文件分类，同时是存储中的目录
const (
	AssetClubCover     = "clubs/covers"
	AssetClubMaterials = "clubs/materials"
	AssetActivityCover = "activities/covers"
	AssetAvatar        = "users/avatars"
)
