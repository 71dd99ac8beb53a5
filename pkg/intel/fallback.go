package intel

import "github.com/finhavoc/scenarioforge/pkg/domain"

// curatedTTPs covers the common techniques observed per crisis phase, so
// GetTTPs never stalls generation when the vector store is degraded.
var curatedTTPs = map[domain.Phase][]domain.TTP{
	domain.PhaseNormalOperation: {
		{ID: "T1566", Name: "Phishing", Tactic: "Initial Access", Description: "Spearphishing email with malicious attachment or link."},
		{ID: "T1078", Name: "Valid Accounts", Tactic: "Initial Access", Description: "Use of compromised credentials to gain initial foothold."},
	},
	domain.PhaseSuspiciousActivity: {
		{ID: "T1059", Name: "Command and Scripting Interpreter", Tactic: "Execution", Description: "Unusual script execution flagged by endpoint monitoring."},
		{ID: "T1071", Name: "Application Layer Protocol", Tactic: "Command and Control", Description: "Anomalous outbound traffic consistent with C2 beaconing."},
	},
	domain.PhaseInitialIncident: {
		{ID: "T1486", Name: "Data Encrypted for Impact", Tactic: "Impact", Description: "Ransomware binary begins encrypting accessible file shares."},
		{ID: "T1490", Name: "Inhibit System Recovery", Tactic: "Impact", Description: "Deletion of shadow copies and backup catalogs."},
	},
	domain.PhaseEscalationCrisis: {
		{ID: "T1567", Name: "Exfiltration Over Web Service", Tactic: "Exfiltration", Description: "Bulk data staged and uploaded to an external service."},
		{ID: "T1489", Name: "Service Stop", Tactic: "Impact", Description: "Critical application services forcibly stopped."},
	},
	domain.PhaseContainment: {
		{ID: "T1021", Name: "Remote Services", Tactic: "Lateral Movement", Description: "Attacker-controlled remote sessions being isolated by response team."},
		{ID: "T1562", Name: "Impair Defenses", Tactic: "Defense Evasion", Description: "Attempted disabling of security tooling during containment."},
	},
	domain.PhaseRecovery: {
		{ID: "T1490-R", Name: "Backup Restoration", Tactic: "Recovery", Description: "Restoration of systems from clean backups post-containment."},
		{ID: "T1078-R", Name: "Credential Rotation", Tactic: "Recovery", Description: "Forced rotation of compromised credentials."},
	},
}

// fallbackTTPs returns up to k curated TTPs for phase, falling back to the
// normal-operation set if the phase is unrecognized.
func fallbackTTPs(phase domain.Phase, k int) []domain.TTP {
	list, ok := curatedTTPs[phase]
	if !ok {
		list = curatedTTPs[domain.PhaseNormalOperation]
	}
	if k <= 0 || k >= len(list) {
		return append([]domain.TTP(nil), list...)
	}
	return append([]domain.TTP(nil), list[:k]...)
}
