package sync

// Field identifies one sync-relevant column of a local entity. Hook triage
// works on typed sets of these rather than loose string slices.
type Field string

// Product fields.
const (
	FieldTitle         Field = "title"
	FieldDescription   Field = "description"
	FieldPriceUSD      Field = "price_usd"
	FieldPriceZWL      Field = "price_zwl"
	FieldStockQuantity Field = "stock_quantity"
	FieldStockStatus   Field = "stock_status"
	FieldCoverImage    Field = "cover_image"
	FieldISBN          Field = "isbn"
	FieldAuthor        Field = "author"
	FieldPublisher     Field = "publisher"
	FieldCategoryID    Field = "category_id"
	FieldOdooProductID Field = "odoo_product_id"
	FieldOdooSyncedAt  Field = "odoo_synced_at"
)

// Customer fields.
const (
	FieldName          Field = "name"
	FieldEmail         Field = "email"
	FieldPhone         Field = "phone"
	FieldMobile        Field = "mobile"
	FieldStreet        Field = "street"
	FieldStreet2       Field = "street2"
	FieldCity          Field = "city"
	FieldZip           Field = "zip"
	FieldType          Field = "type"
	FieldOdooPartnerID Field = "odoo_partner_id"
)

// FieldSet is an unordered set of fields.
type FieldSet map[Field]struct{}

// NewFieldSet builds a set from its members.
func NewFieldSet(fields ...Field) FieldSet {
	s := make(FieldSet, len(fields))
	for _, f := range fields {
		s[f] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s FieldSet) Has(f Field) bool {
	_, ok := s[f]
	return ok
}

// Len returns the set size.
func (s FieldSet) Len() int { return len(s) }

// Intersect returns the fields present in both sets.
func (s FieldSet) Intersect(other FieldSet) FieldSet {
	out := make(FieldSet)
	for f := range s {
		if other.Has(f) {
			out[f] = struct{}{}
		}
	}
	return out
}

// Diff returns the fields of s not present in other.
func (s FieldSet) Diff(other FieldSet) FieldSet {
	out := make(FieldSet)
	for f := range s {
		if !other.Has(f) {
			out[f] = struct{}{}
		}
	}
	return out
}

// ProductSyncFields are the product columns whose change warrants a push.
var ProductSyncFields = NewFieldSet(
	FieldTitle,
	FieldDescription,
	FieldPriceUSD,
	FieldPriceZWL,
	FieldStockQuantity,
	FieldStockStatus,
	FieldCoverImage,
	FieldISBN,
	FieldAuthor,
	FieldPublisher,
)

// ProductMetaFields are sync-bookkeeping columns. A write touching only
// these is housekeeping from a previous sync, never a user change.
var ProductMetaFields = NewFieldSet(
	FieldOdooProductID,
	FieldOdooSyncedAt,
)

// CustomerSyncFields are the customer columns whose change warrants a push.
var CustomerSyncFields = NewFieldSet(
	FieldName,
	FieldEmail,
	FieldPhone,
	FieldMobile,
	FieldStreet,
	FieldStreet2,
	FieldCity,
	FieldZip,
	FieldType,
)

// CustomerMetaFields mirror ProductMetaFields for customers.
var CustomerMetaFields = NewFieldSet(
	FieldOdooPartnerID,
	FieldOdooSyncedAt,
)
