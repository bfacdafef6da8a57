package model

// Payment providers
const (
	PaymentProviderStripe = "stripe"
)

// Transaction is an append-only payment record, keyed by the paying user with
// the processor's transaction id as range key.
type Transaction struct {
	UserID          string `json:"userId" dynamodbav:"userId"`
	TransactionID   string `json:"transactionId" dynamodbav:"transactionId"`
	DateTime        string `json:"dateTime" dynamodbav:"dateTime"`
	CourseID        string `json:"courseId" dynamodbav:"courseId"`
	PaymentProvider string `json:"paymentProvider" dynamodbav:"paymentProvider"`
	Amount          int    `json:"amount" dynamodbav:"amount"` // minor currency units
}
