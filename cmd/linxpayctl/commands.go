package main

import (
	"github.com/spf13/cobra"

	"github.com/Checker-Finance/linxpay/pkg/linxpay"
)

func newPollCommand(ctx *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "poll",
		Short: "Check LinxPay API availability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := ctx.client.Poll(cmd.Context())
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), res)
		},
	}
}

func newRedeemCommand(ctx *cliContext) *cobra.Command {
	var (
		card         string
		customerType string
		idNumber     string
		state        string
		country      string
		productType  string
		store        string
		budtender    string
		amount       string
	)

	cmd := &cobra.Command{
		Use:   "redeem",
		Short: "Redeem a Linx card transaction",
		Long: `Redeem a Linx card transaction.

The payload is validated locally before anything is sent.

Examples:
  # Passport holder, medicinal purchase
  linxpayctl redeem --card 4111222233334444 --customer-type passport --id-number X1 \
    --country US --product-type medicinal --store "Main St" --budtender Sam --amount 20.50

  # Driver's license holder
  linxpayctl redeem --card 4111222233334444 --customer-type drivers_license --id-number D123 \
    --state NV --product-type recreational --store "Main St" --budtender Sam --amount 12`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			customer := linxpay.Fields{
				"type":      customerType,
				"id_number": idNumber,
			}
			if state != "" {
				customer["state"] = state
			}
			if country != "" {
				customer["country"] = country
			}

			fields := linxpay.Fields{
				"linx_card_number": card,
				"customer":         customer,
				"product_type":     productType,
				"store_location":   linxpay.Fields{"name": store},
				"budtender":        linxpay.Fields{"name": budtender},
				"amount":           amount,
			}

			res, err := ctx.client.Redemption(cmd.Context(), fields)
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVar(&card, "card", "", "Linx card number")
	cmd.Flags().StringVar(&customerType, "customer-type", linxpay.CustomerDriversLicense, "drivers_license or passport")
	cmd.Flags().StringVar(&idNumber, "id-number", "", "Customer ID document number")
	cmd.Flags().StringVar(&state, "state", "", "Issuing state (drivers_license)")
	cmd.Flags().StringVar(&country, "country", "", "Issuing country (passport)")
	cmd.Flags().StringVar(&productType, "product-type", linxpay.ProductRecreational, "recreational or medicinal")
	cmd.Flags().StringVar(&store, "store", "", "Store location name")
	cmd.Flags().StringVar(&budtender, "budtender", "", "Budtender name")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount to redeem")

	for _, name := range []string{"card", "id-number", "store", "budtender", "amount"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}
