package visibility

import (
	"net/url"
	"sort"

	"gorm.io/gorm"
)

// Scopes in this package implement the read-side visibility policy: every
// query site composes an explicit predicate instead of relying on implicit
// default filtering. Lookups that match nothing under the composed predicate
// report not-found; a viewer can never tell a hidden row from an absent one.

// NotDeleted keeps only live rows of the queried table.
func NotDeleted(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ?", false)
}

// CompanyVisibleTo limits companies to those the viewer owns or is an
// accepted, live employee of.
func CompanyVisibleTo(viewerID int64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(
			`companies.created_by = ? OR EXISTS (
				SELECT 1 FROM employees e
				WHERE e.company_id = companies.id
				  AND e.user_id = ?
				  AND e.is_accepted = ?
				  AND e.is_deleted = ?
			)`, viewerID, viewerID, true, false)
	}
}

// CompanyMemberOf limits companies to those where the viewer has a live
// employee row in the given acceptance state. Used for the member-accepted
// and member-pending listing buckets.
func CompanyMemberOf(viewerID int64, accepted bool) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(
			`EXISTS (
				SELECT 1 FROM employees e
				WHERE e.company_id = companies.id
				  AND e.user_id = ?
				  AND e.is_accepted = ?
				  AND e.is_deleted = ?
			)`, viewerID, accepted, false)
	}
}

// EmployeeVisibleTo limits employee rows to the employee's own user or the
// owner of the employing company.
func EmployeeVisibleTo(viewerID int64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(
			`employees.user_id = ? OR EXISTS (
				SELECT 1 FROM companies c
				WHERE c.id = employees.company_id
				  AND c.created_by = ?
				  AND c.is_deleted = ?
			)`, viewerID, viewerID, false)
	}
}

// ShiftVisibleTo limits shifts to the shift's own employee user or the owner
// of that employee's company.
func ShiftVisibleTo(viewerID int64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(
			`EXISTS (
				SELECT 1 FROM employees e
				WHERE e.id = shifts.employee_id
				  AND (e.user_id = ? OR EXISTS (
					SELECT 1 FROM companies c
					WHERE c.id = e.company_id AND c.created_by = ?
				  ))
			)`, viewerID, viewerID)
	}
}

// ContainsFilters narrows a listing by free-text contains filters supplied
// per field name, AND-combined with whatever visibility predicate is already
// on the query. allowed maps the query parameter name to the column it may
// filter; anything else in params is ignored.
func ContainsFilters(params url.Values, allowed map[string]string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		names := make([]string, 0, len(params))
		for name := range params {
			names = append(names, name)
		}
		// stable predicate order keeps generated SQL deterministic
		sort.Strings(names)

		for _, name := range names {
			column, ok := allowed[name]
			if !ok {
				continue
			}
			value := params.Get(name)
			if value == "" {
				continue
			}
			db = db.Where(column+" LIKE ?", "%"+value+"%")
		}
		return db
	}
}
