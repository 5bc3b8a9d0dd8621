package normalize

import (
	"strings"

	"github.com/joseph-ayodele/orders-analytics/constants"
)

// PaymentRules is matched against the upper-cased label in this order.
var PaymentRules = RuleTable[constants.PaymentMethod]{
	{Name: "upi", Match: pattern(`(UPI|GOOGLE ?PAY|GPAY|PHONE ?PE|BHIM)`), Label: constants.PaymentUPI},
	{Name: "credit", Match: pattern(`(CREDIT|CC)`), Label: constants.PaymentCreditCard},
	{Name: "debit", Match: pattern(`(DEBIT|DC)`), Label: constants.PaymentDebitCard},
	{Name: "cod", Match: pattern(`(COD|C\.?O\.?D)`), Label: constants.PaymentCOD},
	{Name: "netbanking", Match: pattern(`(NET ?BANK)`), Label: constants.PaymentNetBanking},
	{Name: "wallet", Match: pattern(`(WALLET|PAYTM|AMAZON ?PAY)`), Label: constants.PaymentWallet},
	{Name: "bnpl", Match: pattern(`(BNPL|PAY ?LATER|LAZY ?PAY|SIMPL)`), Label: constants.PaymentBNPL},
}

// Payment maps a free-text payment label onto the canonical set.
func Payment(v any) constants.PaymentMethod {
	s, ok := Text(v)
	if !ok {
		return constants.PaymentOther
	}
	if pm, ok := PaymentRules.Apply(strings.ToUpper(Space(s))); ok {
		return pm
	}
	return constants.PaymentOther
}
