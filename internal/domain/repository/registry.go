package repository

// Registry agrupa los repositorios atados a una misma conexión o transacción.
type Registry struct {
	TaxRates   TaxRateRepository
	TaxRules   TaxRuleRepository
	TaxClasses TaxClassRepository
	Stores     StoreRepository
	Directory  DirectoryRepository
	Patches    PatchRepository
}
