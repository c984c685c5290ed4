package author

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"shelfline/internal/shared/serializer"
)

// CacheTag scopes every cached author list page. Invalidating it drops all
// page/limit combinations at once.
const CacheTag = "authorsCache"

// GroupRead is the serialization group for author read views.
const GroupRead = "getAuthors"

// Author owns a collection of books; deleting an author cascades to them.
type Author struct {
	ID        int64     `json:"id" db:"id"`
	FirstName string    `json:"firstName" db:"first_name"`
	LastName  string    `json:"lastName" db:"last_name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Validate checks entity-level constraints. Returns validation.Errors keyed
// by field on failure.
func (a Author) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.FirstName, validation.Required, validation.Length(1, 255)),
		validation.Field(&a.LastName, validation.Required, validation.Length(1, 255)),
	)
}

// Serialize shapes the author for output under the read group. Links are
// attached by the caller so cached data stays role-neutral.
func (a *Author) Serialize(v serializer.Version, links serializer.Links) map[string]interface{} {
	return serializer.NewDoc(GroupRead, v).
		Field("id", a.ID, GroupRead).
		Field("firstName", a.FirstName, GroupRead).
		Field("lastName", a.LastName, GroupRead).
		Links(links).
		Map()
}

// Embed returns the representation embedded inside book views: same fields,
// no links.
func (a *Author) Embed(v serializer.Version) map[string]interface{} {
	return a.Serialize(v, nil)
}

// CreateAuthorRequest - POST /api/v1/authors
type CreateAuthorRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (req *CreateAuthorRequest) ToEntity() *Author {
	return &Author{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
}

// UpdateAuthorRequest - PUT /api/v1/authors/:id
// Only first/last name are mutable; the id never changes.
type UpdateAuthorRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (req *UpdateAuthorRequest) ApplyToEntity(a *Author) {
	a.FirstName = req.FirstName
	a.LastName = req.LastName
}
