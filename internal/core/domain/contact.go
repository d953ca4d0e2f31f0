package domain

// ContactService distinguishes customers from vendors.
type ContactService string

const (
	ContactCustomer ContactService = "customer"
	ContactVendor   ContactService = "vendor"
)

// Contact is a customer or vendor a transaction may be attributed to.
type Contact struct {
	ID             int64          `json:"id"`
	DisplayName    string         `json:"displayName"`
	ContactService ContactService `json:"contactService"`
}
