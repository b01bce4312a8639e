package request

// CreateCompanyRequest is decoded from the multipart company form
type CreateCompanyRequest struct {
	CompanyName    string `schema:"company_name"`
	ABN            string `schema:"abn"`
	Address        string `schema:"address"`
	Phone          string `schema:"phone"`
	Email          string `schema:"email"`
	PaymentDetails string `schema:"payment_details"`
}
