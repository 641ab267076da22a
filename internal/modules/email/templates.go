package email

import (
	"context"
	"fmt"
)

type ChipInReceiptInput struct {
	To        string
	ToName    string
	EventName string
	HostName  string
	Reference string
	Amount    string
	Fee       string
}

// SendChipInReceipt confirms a completed chip-in to the guest.
func SendChipInReceipt(ctx context.Context, s Sender, in ChipInReceiptInput) error {
	subject := "Your chip-in for " + in.EventName

	textBody := "Hi " + in.ToName + ",\n\n" +
		"Thanks for chipping in toward " + in.EventName + " hosted by " + in.HostName + ".\n\n" +
		"Amount: " + in.Amount + "\nFee: " + in.Fee + "\nReference: " + in.Reference + "\n\n" +
		"The Meetro Team"

	htmlBody := fmt.Sprintf(`
<html>
  <body style="font-family: sans-serif;">
    <h2>Thanks for chipping in!</h2>
    <p>Hi %s,</p>
    <p>Your contribution toward <strong>%s</strong> (hosted by %s) went through.</p>
    <p><strong>Amount:</strong> %s<br/>
       <strong>Fee:</strong> %s<br/>
       <strong>Reference:</strong> %s</p>
    <p>The Meetro Team</p>
  </body>
</html>
`, in.ToName, in.EventName, in.HostName, in.Amount, in.Fee, in.Reference)

	return s.Send(ctx, Message{
		To:      in.To,
		ToName:  in.ToName,
		Subject: subject,
		Text:    textBody,
		HTML:    htmlBody,
	})
}

// SendWelcome greets a freshly registered user.
func SendWelcome(ctx context.Context, s Sender, to, name string) error {
	subject := "Welcome to Meetro!"
	textBody := "Hi " + name + ",\n\nThanks for joining Meetro. Start planning your first event!"

	htmlBody := `
<html>
  <body style="font-family: sans-serif;">
    <h2>Welcome!</h2>
    <p>Hi ` + name + `,</p>
    <p>Thanks for joining Meetro. Start planning your first event!</p>
    <p>The Meetro Team</p>
  </body>
</html>
`

	return s.Send(ctx, Message{
		To:      to,
		ToName:  name,
		Subject: subject,
		Text:    textBody,
		HTML:    htmlBody,
	})
}
