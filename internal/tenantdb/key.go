package tenantdb

// Key returns the storage key of a collection or document for a tenant.
func Key(collection, tenantID string) string {
	return collection + "_data_" + tenantID
}
