package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/quotelab/premia/pkg/cli/config"
	"github.com/quotelab/premia/pkg/domain/model"
	"github.com/quotelab/premia/pkg/domain/types"
	"github.com/quotelab/premia/pkg/service/pricing"
	"github.com/quotelab/premia/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// cmdQuote computes a baseline quote from flags without starting a server.
// It never calls external services.
func cmdQuote() *cli.Command {
	var age int64
	var gender string
	var location string
	var members int64
	var conditions string
	var tobacco string
	var sumInsured int64
	var planType string
	var paymentMode string
	var pricingCfg config.Pricing

	flags := []cli.Flag{
		&cli.Int64Flag{
			Name:        "age",
			Usage:       "Applicant age",
			Value:       -1,
			Destination: &age,
		},
		&cli.StringFlag{
			Name:        "gender",
			Usage:       "Applicant gender (Male, Female, Other)",
			Destination: &gender,
		},
		&cli.StringFlag{
			Name:        "location",
			Usage:       "Applicant location",
			Destination: &location,
		},
		&cli.Int64Flag{
			Name:        "members",
			Usage:       "Number of insured members",
			Value:       -1,
			Destination: &members,
		},
		&cli.StringFlag{
			Name:        "conditions",
			Usage:       "Pre-existing conditions (free text)",
			Destination: &conditions,
		},
		&cli.StringFlag{
			Name:        "tobacco",
			Usage:       "Smoking/tobacco use (No, Occasional, Yes)",
			Destination: &tobacco,
		},
		&cli.Int64Flag{
			Name:        "sum-insured",
			Usage:       "Sum insured in INR",
			Value:       -1,
			Destination: &sumInsured,
		},
		&cli.StringFlag{
			Name:        "plan-type",
			Usage:       "Plan type (Individual or Family)",
			Destination: &planType,
		},
		&cli.StringFlag{
			Name:        "payment-mode",
			Usage:       "Payment mode (Yearly, Half-Yearly, Quarterly, Monthly)",
			Destination: &paymentMode,
		},
	}
	flags = append(flags, pricingCfg.Flags()...)

	return &cli.Command{
		Name:    "quote",
		Aliases: []string{"q"},
		Usage:   "Compute a baseline quote from flags",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			profile, err := buildProfile(age, gender, location, members, conditions, tobacco, sumInsured, planType, paymentMode)
			if err != nil {
				return err
			}

			matrix, err := pricingCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load pricing configuration")
			}
			calculator, err := pricing.NewCalculator(matrix)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize calculator")
			}

			uc := usecase.New(calculator)
			resp, err := uc.ComputeQuote(ctx, *profile)
			if err != nil {
				return goerr.Wrap(err, "failed to compute quote")
			}

			printQuote(profile, resp)
			return nil
		},
	}
}

func buildProfile(age int64, gender, location string, members int64, conditions, tobacco string, sumInsured int64, planType, paymentMode string) (*model.ApplicantProfile, error) {
	profile := &model.ApplicantProfile{
		Location:              location,
		PreExistingConditions: conditions,
	}

	if age >= 0 {
		v := int(age)
		profile.Age = &v
	}
	if members >= 0 {
		v := int(members)
		profile.Members = &v
	}
	if sumInsured >= 0 {
		v := sumInsured
		profile.SumInsuredINR = &v
	}

	g, err := types.ParseGender(gender)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid --gender")
	}
	profile.Gender = g

	t, err := types.ParseTobaccoUse(tobacco)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid --tobacco")
	}
	profile.TobaccoUse = t

	p, err := types.ParsePlanType(planType)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid --plan-type")
	}
	profile.PlanType = p

	m, err := types.ParsePaymentMode(paymentMode)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid --payment-mode")
	}
	profile.PaymentMode = m

	return profile, nil
}

func printQuote(profile *model.ApplicantProfile, resp *usecase.QuoteResponse) {
	title := color.New(color.FgCyan, color.Bold)
	label := color.New(color.FgWhite)
	amount := color.New(color.FgGreen, color.Bold)

	title.Println("Premium quote")
	label.Printf("  Profile:       %s\n", profile.QueryText())
	fmt.Println()
	amount.Printf("  Total payable: ₹%.2f (%s)\n", resp.TotalPayableINR, profile.PaymentMode.Normalize())
	fmt.Println()
	label.Printf("  Yearly:        ₹%.2f\n", resp.YearlyINR)
	label.Printf("  Half-Yearly:   ₹%.2f\n", resp.HalfYearlyINR)
	label.Printf("  Quarterly:     ₹%.2f\n", resp.QuarterlyINR)
	label.Printf("  Monthly:       ₹%.2f\n", resp.MonthlyINR)
}
