package dto

import (
	"smashroom/internal/domains/catalog/model"
	"smashroom/shared"
	gDto "smashroom/shared/dto"
	gModel "smashroom/shared/model"
	"smashroom/shared/timezone"

	"github.com/lib/pq"
)

type CreatePackageRequest struct {
	Name           string  `json:"name"           validate:"required,max=100"`
	Description    string  `json:"description"    validate:"omitempty,max=1000"`
	Price          float64 `json:"price"          validate:"gte=0"`
	DepositAmount  float64 `json:"depositAmount"  validate:"gte=0,ltefield=Price"`
	Duration       int     `json:"duration"       validate:"required,min=15,max=720"`
	MaxPeople      int     `json:"maxPeople"      validate:"required,min=1"`
	PreferredRooms []int64 `json:"preferredRooms" validate:"omitempty,dive,min=1"`
	IsActive       *bool   `json:"isActive"`
	IsBestseller   bool    `json:"isBestseller"`
}

func (c *CreatePackageRequest) ToModel(id int64, user string) model.Package {
	active := true
	if c.IsActive != nil {
		active = *c.IsActive
	}

	return model.Package{
		ID:             id,
		Name:           c.Name,
		Description:    c.Description,
		Price:          c.Price,
		DepositAmount:  c.DepositAmount,
		Duration:       c.Duration,
		MaxPeople:      c.MaxPeople,
		PreferredRooms: pq.Int64Array(c.PreferredRooms),
		IsActive:       active,
		IsBestseller:   c.IsBestseller,
		Metadata:       gModel.NewMetadata(timezone.Now(), user),
	}
}

type UpdatePackageRequest struct {
	Name           string         `db:"name"            json:"name"           validate:"omitempty,max=100"`
	Description    *string        `db:"description"     json:"description"    validate:"omitempty,max=1000"`
	Price          *float64       `db:"price"           json:"price"          validate:"omitempty,gte=0"`
	DepositAmount  *float64       `db:"deposit_amount"  json:"depositAmount"  validate:"omitempty,gte=0"`
	Duration       *int           `db:"duration"        json:"duration"       validate:"omitempty,min=15,max=720"`
	MaxPeople      *int           `db:"max_people"      json:"maxPeople"      validate:"omitempty,min=1"`
	PreferredRooms *pq.Int64Array `db:"preferred_rooms" json:"preferredRooms" swaggertype:"array,integer"`
	IsActive       *bool          `db:"is_active"       json:"isActive"`
	IsBestseller   *bool          `db:"is_bestseller"   json:"isBestseller"`
}

type PackageResponse struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	Price          float64 `json:"price"`
	DepositAmount  float64 `json:"depositAmount"`
	Duration       int     `json:"duration"`
	MaxPeople      int     `json:"maxPeople"`
	PreferredRooms []int64 `json:"preferredRooms"`
	IsActive       bool    `json:"isActive"`
	IsBestseller   bool    `json:"isBestseller"`
	gDto.Metadata
}

func (r *PackageResponse) FromModel(model model.Package) {
	r.ID = model.ID
	r.Name = model.Name
	r.Description = model.Description
	r.Price = model.Price
	r.DepositAmount = model.DepositAmount
	r.Duration = model.Duration
	r.MaxPeople = model.MaxPeople
	r.PreferredRooms = []int64(model.PreferredRooms)
	r.IsActive = model.IsActive
	r.IsBestseller = model.IsBestseller
	r.Metadata.FromModel(model.Metadata)

	if r.PreferredRooms == nil {
		r.PreferredRooms = []int64{}
	}
}

type GetPackagesResponse struct {
	Packages  []PackageResponse `json:"packages"`
	TotalPage int               `json:"totalPage"`
	TotalData int               `json:"totalData"`
}

func (r *GetPackagesResponse) FromModels(models []model.Package, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Packages = make([]PackageResponse, len(models))
	for i, mod := range models {
		r.Packages[i].FromModel(mod)
	}
}
