package summary

import contractx "github.com/tanpawarit/crm-insights-gateway/gateway/contract"

// ProjectContacts keeps id, firstname, lastname and email. phone and address are requested
// upstream but not forwarded to the model.
func ProjectContacts(objs []contractx.Object) []contractx.ContactSummary {
	out := make([]contractx.ContactSummary, 0, len(objs))
	for _, o := range objs {
		out = append(out, contractx.ContactSummary{
			ID:        o.ID,
			FirstName: o.Property("firstname"),
			LastName:  o.Property("lastname"),
			Email:     o.Property("email"),
		})
	}
	return out
}

// ProjectDeals keeps id, dealname, amount and dealstage; closedate and pipeline are dropped.
func ProjectDeals(objs []contractx.Object) []contractx.DealSummary {
	out := make([]contractx.DealSummary, 0, len(objs))
	for _, o := range objs {
		out = append(out, contractx.DealSummary{
			ID:        o.ID,
			DealName:  o.Property("dealname"),
			Amount:    o.Property("amount"),
			DealStage: o.Property("dealstage"),
		})
	}
	return out
}
