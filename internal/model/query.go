package model

import "sort"

// Filter group names used by the trade service.
const (
	GroupType      = "type_filters"
	GroupEquipment = "equipment_filters"
	GroupReq       = "req_filters"
	GroupMap       = "map_filters"
	GroupMisc      = "misc_filters"
)

// Stat group types.
const (
	StatGroupAnd   = "and"
	StatGroupCount = "count"
)

// Query is the assembled search. It keeps both what the item rolled and what
// will be searched for, plus enabled flags, so a caller can toggle and reset
// fields before building the request.
type Query struct {
	Groups      map[string]*FilterGroup
	Name        string
	Type        string
	Stats       []StatFilterGroup
	NameEnabled bool
	TypeEnabled bool
}

// FilterGroup is a named set of property filters.
type FilterGroup struct {
	Filters map[string]*FilterField
	Enabled bool
}

// FilterField is one property filter.
type FilterField struct {
	Min           *float64
	Max           *float64
	OriginalValue *float64
	Option        string
	Enabled       bool
}

// Reset restores the searched minimum to the value the item rolled.
func (f *FilterField) Reset() {
	if f.OriginalValue == nil {
		f.Min = nil
		return
	}
	v := *f.OriginalValue
	f.Min = &v
}

// StatFilterGroup is an "and" or "count" group of stat filters.
type StatFilterGroup struct {
	Value   Range
	Type    string
	Filters []StatFilter
	Enabled bool
}

// StatFilter is one stat filter derived from a matched modifier.
type StatFilter struct {
	Original Range
	Value    Range
	ID       string
	Category ModCategory
	RawText  string
	Option   OptionID
	Enabled  bool
}

// NewQuery returns an empty query.
func NewQuery() *Query {
	return &Query{Groups: make(map[string]*FilterGroup)}
}

// Field returns the named field or nil when the group or field is absent.
func (q *Query) Field(group, field string) *FilterField {
	g, ok := q.Groups[group]
	if !ok {
		return nil
	}
	return g.Filters[field]
}

// SetField stores a field, creating its group on demand.
func (q *Query) SetField(group, field string, f *FilterField) {
	g, ok := q.Groups[group]
	if !ok {
		g = &FilterGroup{Filters: make(map[string]*FilterField)}
		q.Groups[group] = g
	}
	g.Filters[field] = f
}

// ActiveStatFilters indexes the enabled stat filters of enabled groups by stat id.
// When a stat appears more than once the first filter wins.
func (q *Query) ActiveStatFilters() map[string]StatFilter {
	active := make(map[string]StatFilter)
	for _, g := range q.Stats {
		if !g.Enabled {
			continue
		}
		for _, f := range g.Filters {
			if !f.Enabled {
				continue
			}
			if _, seen := active[f.ID]; !seen {
				active[f.ID] = f
			}
		}
	}
	return active
}

// Request is the JSON payload sent to the trade search endpoint.
type Request struct {
	Sort  map[string]string `json:"sort"`
	Query RequestQuery      `json:"query"`
}

// RequestQuery is the "query" object of a Request.
type RequestQuery struct {
	Filters map[string]RequestFilterGroup `json:"filters,omitempty"`
	Status  RequestOption                 `json:"status"`
	Name    string                        `json:"name,omitempty"`
	Type    string                        `json:"type,omitempty"`
	Stats   []RequestStatGroup            `json:"stats"`
}

// RequestOption wraps a single option value.
type RequestOption struct {
	Option string `json:"option"`
}

// RequestFilterGroup is an emitted filter group.
type RequestFilterGroup struct {
	Filters  map[string]RequestFilter `json:"filters"`
	Disabled bool                     `json:"disabled"`
}

// RequestFilter is an emitted property filter.
type RequestFilter struct {
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
	Option string   `json:"option,omitempty"`
}

// RequestStatGroup is an emitted stat group.
type RequestStatGroup struct {
	Value   *RequestStatValue   `json:"value,omitempty"`
	Type    string              `json:"type"`
	Filters []RequestStatFilter `json:"filters"`
}

// RequestStatFilter is an emitted stat filter.
type RequestStatFilter struct {
	Value    *RequestStatValue `json:"value,omitempty"`
	ID       string            `json:"id"`
	Disabled bool              `json:"disabled"`
}

// RequestStatValue is the value of a stat filter or count group.
type RequestStatValue struct {
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
	Option OptionID `json:"option,omitempty"`
}

// Request builds the wire payload. Disabled groups and fields are left out
// entirely rather than sent as zero values.
func (q *Query) Request() Request {
	rq := RequestQuery{
		Status: RequestOption{Option: "online"},
		Stats:  []RequestStatGroup{},
	}
	if q.NameEnabled {
		rq.Name = q.Name
	}
	if q.TypeEnabled {
		rq.Type = q.Type
	}

	for _, name := range q.groupNames() {
		g := q.Groups[name]
		if !g.Enabled {
			continue
		}
		out := RequestFilterGroup{Filters: make(map[string]RequestFilter)}
		for field, f := range g.Filters {
			if f == nil || !f.Enabled {
				continue
			}
			out.Filters[field] = RequestFilter{Min: f.Min, Max: f.Max, Option: f.Option}
		}
		if len(out.Filters) == 0 {
			continue
		}
		if rq.Filters == nil {
			rq.Filters = make(map[string]RequestFilterGroup)
		}
		rq.Filters[name] = out
	}

	for _, g := range q.Stats {
		if !g.Enabled {
			continue
		}
		out := RequestStatGroup{Type: g.Type, Filters: []RequestStatFilter{}}
		if !g.Value.IsEmpty() {
			out.Value = &RequestStatValue{Min: g.Value.Min, Max: g.Value.Max}
		}
		for _, f := range g.Filters {
			if !f.Enabled {
				continue
			}
			sf := RequestStatFilter{ID: f.ID}
			if !f.Value.IsEmpty() || f.Option != "" {
				sf.Value = &RequestStatValue{Min: f.Value.Min, Max: f.Value.Max, Option: f.Option}
			}
			out.Filters = append(out.Filters, sf)
		}
		if len(out.Filters) == 0 {
			continue
		}
		rq.Stats = append(rq.Stats, out)
	}

	return Request{
		Query: rq,
		Sort:  map[string]string{"price": "asc"},
	}
}

func (q *Query) groupNames() []string {
	names := make([]string, 0, len(q.Groups))
	for name := range q.Groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
