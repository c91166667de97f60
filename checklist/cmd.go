package checklist

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/pvassist/pvassist/internal/cli"
	"github.com/pvassist/pvassist/internal/configuration"
)

// NewCmd instantiates the interactive checklist command. The coordinator is
// constructed by the caller so the chat and checklist commands share one.
func NewCmd(config *configuration.Config, coordinator Coordinator) *cobra.Command {
	var opts struct {
		ExportPath string
		ToChat     bool
	}

	cmd := &cobra.Command{
		Use:   "checklist",
		Short: "Fill in the privacy checklist",
		Long:  "Fill in the privacy checklist, export it, or hand it off to a chat",
		RunE: func(cmd *cobra.Command, args []string) error {
			form := NewForm(coordinator, DefaultAutosaveDelay)
			if err := form.Load(); err != nil {
				return err
			}

			loop := &checklistLoop{
				form:            form,
				exportDirectory: config.Export.Directory,
			}
			if opts.ExportPath != "" {
				return WriteTextFile(form.CreatePayload(), opts.ExportPath, time.Now())
			}
			if opts.ToChat {
				loop.redirectToChat()
				return nil
			}
			return loop.run()
		},
	}
	cmd.Flags().StringVar(&opts.ExportPath, "export", "", "write the checklist as text to the given path and exit")
	cmd.Flags().BoolVar(&opts.ToChat, "chat", false, "hand the checklist off to a conversation and exit")
	return cmd
}

type checklistLoop struct {
	form            *Form
	exportDirectory string
}

func (l *checklistLoop) run() error {
	cli.Title("Personvernsjekkliste")
	for {
		choice, err := cli.SelectOne("Hva vil du gjore?", []string{
			"Velg alternativ (motta/dele)",
			"Prosjektkontekst",
			"Databehandling",
			"Behandlingsgrunnlag",
			"Involverte parter",
			"Teknologi og sikkerhet",
			"Risiko og bekymringer",
			"Eksporter til tekstfil",
			"Start samtale fra sjekklisten",
			"Nullstill sjekklisten",
			"Avslutt",
		})
		if err != nil {
			return nil
		}

		switch choice {
		case 0:
			l.editOption()
		case 1:
			l.editContext()
		case 2:
			l.editHandling()
		case 3:
			l.editLegalBasis()
		case 4:
			l.editInvolvedParties()
		case 5:
			l.editTech()
		case 6:
			l.editRiskConcern()
		case 7:
			l.export()
		case 8:
			l.redirectToChat()
		case 9:
			if cli.QueryUser("Nullstille hele sjekklisten?") {
				l.form.Reset()
				cli.Info("Sjekklisten er nullstilt.\n")
			}
		case 10:
			return l.form.Flush()
		}
	}
}

func (l *checklistLoop) editOption() {
	index, err := cli.SelectOne("Skal dere motta eller dele personopplysninger?", []string{
		"Motta personopplysninger",
		"Dele personopplysninger",
	})
	if err != nil {
		return
	}
	if index == 0 {
		l.form.SetSelectedOption(OptionReceive)
	} else {
		l.form.SetSelectedOption(OptionShare)
	}
}

func askString(message, current string) string {
	answer := current
	survey.AskOne(&survey.Input{Message: message, Default: current}, &answer)
	return answer
}

func askInt(message string, current int) int {
	answer := strconv.Itoa(current)
	survey.AskOne(&survey.Input{Message: message, Default: answer}, &answer)
	value, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil {
		return current
	}
	return value
}

func askBool(message string, current bool) bool {
	answer := current
	survey.AskOne(&survey.Confirm{Message: message, Default: current}, &answer)
	return answer
}

func askList(message string, current []string) []string {
	answer := strings.Join(current, ", ")
	survey.AskOne(&survey.Input{Message: message + " (kommaseparert)", Default: answer}, &answer)
	if strings.TrimSpace(answer) == "" {
		return []string{}
	}
	parts := strings.Split(answer, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

func (l *checklistLoop) editContext() {
	data := l.form.ContextData()
	data.ProjectSummary = askString("Kort om prosjektet:", data.ProjectSummary)
	data.Department = askString("Avdeling:", data.Department)
	data.Status = askString("Status:", data.Status)
	data.Purpose = askString("Formal:", data.Purpose)
	l.form.SetContextData(data)
}

func (l *checklistLoop) editHandling() {
	data := l.form.HandlingData()
	data.Purpose = askString("Formal med behandlingen:", data.Purpose)
	data.SelectedDataTypes = askList("Typer personopplysninger", data.SelectedDataTypes)
	data.PersonCount = askInt("Antall registrerte:", data.PersonCount)
	data.RetentionTime = askInt("Lagringstid i ar:", data.RetentionTime)
	data.CollectionMethods = askList("Innsamlingsmetoder", data.CollectionMethods)
	data.Recipient = askString("Mottaker:", data.Recipient)
	l.form.SetHandlingData(data)
}

func (l *checklistLoop) editLegalBasis() {
	data := l.form.LegalBasisData()
	data.LegalBasis = askString("Behandlingsgrunnlag:", data.LegalBasis)
	data.HandlesSensitiveData = askBool("Behandles det saerlige kategorier?", data.HandlesSensitiveData)
	if data.HandlesSensitiveData {
		data.SelectedSensitiveDataReason = askList("Grunnlag for saerlige kategorier", data.SelectedSensitiveDataReason)
	}
	data.StatutoryTasks = askString("Lovpalagte oppgaver:", data.StatutoryTasks)
	l.form.SetLegalBasisData(data)
}

func (l *checklistLoop) editInvolvedParties() {
	data := l.form.InvolvedPartiesData()
	data.RegisteredGroups = askList("Registrerte grupper", data.RegisteredGroups)
	data.UsesExternalProcessors = askBool("Brukes eksterne databehandlere?", data.UsesExternalProcessors)
	if data.UsesExternalProcessors {
		data.ExternalProcessors = askString("Hvilke databehandlere:", data.ExternalProcessors)
	}
	data.EmployeeAccess = askString("Hvem har tilgang:", data.EmployeeAccess)
	data.SharesWithOthers = askBool("Deles opplysningene med andre?", data.SharesWithOthers)
	if data.SharesWithOthers {
		data.SharedWith = askString("Med hvem:", data.SharedWith)
	}
	l.form.SetInvolvedPartiesData(data)
}

func (l *checklistLoop) editTech() {
	data := l.form.TechData()
	data.Storage = askString("Hvor lagres opplysningene:", data.Storage)
	data.Security = askList("Sikkerhetstiltak", data.Security)
	data.Integrations = askBool("Finnes det integrasjoner?", data.Integrations)
	if data.Integrations {
		data.IntegrationDetails = askString("Beskriv integrasjonene:", data.IntegrationDetails)
	}
	data.Automated = askBool("Skjer det automatiserte avgjorelser?", data.Automated)
	if data.Automated {
		data.AutomatedDescription = askString("Beskriv automatiseringen:", data.AutomatedDescription)
	}
	l.form.SetTechData(data)
}

func (l *checklistLoop) editRiskConcern() {
	data := l.form.RiskConcernData()
	data.PrivacyRisk = askInt("Personvernrisiko (1-5):", data.PrivacyRisk)
	data.UnauthAccess = askInt("Risiko for uautorisert tilgang (1-5):", data.UnauthAccess)
	data.DataLoss = askInt("Risiko for datatap (1-5):", data.DataLoss)
	data.Reidentification = askInt("Risiko for reidentifisering (1-5):", data.Reidentification)
	data.EmployeeConcern = askBool("Har ansatte meldt bekymring?", data.EmployeeConcern)
	if data.EmployeeConcern {
		data.WrittenConcern = askString("Beskriv bekymringen:", data.WrittenConcern)
	}
	data.RegulatoryConcern = askString("Regulatoriske bekymringer:", data.RegulatoryConcern)
	l.form.SetRiskConcernData(data)
}

func (l *checklistLoop) export() {
	if err := l.form.Flush(); err != nil {
		cli.Error("Kunne ikke lagre sjekklisten: %v\n", err)
		return
	}
	if err := os.MkdirAll(l.exportDirectory, 0755); err != nil {
		cli.Error("Kunne ikke opprette eksportmappen: %v\n", err)
		return
	}
	now := time.Now()
	path := filepath.Join(l.exportDirectory, fmt.Sprintf("sjekkliste-%s.txt", now.Format("2006-01-02-150405")))
	if err := WriteTextFile(l.form.CreatePayload(), path, now); err != nil {
		cli.Error("Kunne ikke eksportere: %v\n", err)
		return
	}
	cli.Info("Eksportert til %s\n", path)
}

func (l *checklistLoop) redirectToChat() {
	if l.form.SelectedOption() == OptionNone {
		cli.Error("Velg motta eller dele forst.\n")
		return
	}
	if _, err := l.form.RedirectToChat(); err != nil {
		cli.Error("%s\n", l.form.SubmitError())
		return
	}
	cli.Info("Samtale opprettet. Kjor 'pvassist chat' for a fortsette med sjekklisten som kontekst.\n")
}
