package constants

// PaymentMethod is the canonical payment label stored in the transactions table.
type PaymentMethod string

const (
	PaymentUPI        PaymentMethod = "UPI"
	PaymentCreditCard PaymentMethod = "Credit Card"
	PaymentDebitCard  PaymentMethod = "Debit Card"
	PaymentCOD        PaymentMethod = "COD"
	PaymentNetBanking PaymentMethod = "Net Banking"
	PaymentWallet     PaymentMethod = "Wallet"
	PaymentBNPL       PaymentMethod = "BNPL"
	PaymentOther      PaymentMethod = "Other"
)

var allPaymentMethods = []PaymentMethod{
	PaymentUPI,
	PaymentCreditCard,
	PaymentDebitCard,
	PaymentCOD,
	PaymentNetBanking,
	PaymentWallet,
	PaymentBNPL,
	PaymentOther,
}

func PaymentMethods() []PaymentMethod {
	out := make([]PaymentMethod, len(allPaymentMethods))
	copy(out, allPaymentMethods)
	return out
}

func IsPaymentMethod(s string) bool {
	for _, pm := range allPaymentMethods {
		if s == string(pm) {
			return true
		}
	}
	return false
}
