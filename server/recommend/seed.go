package recommend

import "github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/server/model"

// DefaultPesticides is the built-in treatment table, used when no dataset CSV
// is available. Application rates are per litre of spray water.
func DefaultPesticides() []model.Pesticide {
	return []model.Pesticide{
		{PestName: "aphid", PesticideName: "Imidacloprid", ApplicationRate: "0.5ml/L", Effectiveness: "High"},
		{PestName: "aphid", PesticideName: "Thiamethoxam", ApplicationRate: "0.3g/L", Effectiveness: "High"},
		{PestName: "aphid", PesticideName: "Acetamiprid", ApplicationRate: "0.6ml/L", Effectiveness: "Medium"},
		{PestName: "thrips", PesticideName: "Spinosad", ApplicationRate: "0.45ml/L", Effectiveness: "High"},
		{PestName: "thrips", PesticideName: "Abamectin", ApplicationRate: "1.9ml/L", Effectiveness: "Medium"},
		{PestName: "thrips", PesticideName: "Fipronil", ApplicationRate: "2ml/L", Effectiveness: "High"},
		{PestName: "whitefly", PesticideName: "Spiromesifen", ApplicationRate: "1.5ml/L", Effectiveness: "High"},
		{PestName: "whitefly", PesticideName: "Pyriproxyfen", ApplicationRate: "1ml/L", Effectiveness: "Medium"},
		{PestName: "whitefly", PesticideName: "Buprofezin", ApplicationRate: "2ml/L", Effectiveness: "Medium"},
		{PestName: "caterpillar", PesticideName: "Bacillus thuringiensis", ApplicationRate: "2g/L", Effectiveness: "High"},
		{PestName: "caterpillar", PesticideName: "Chlorantraniliprole", ApplicationRate: "0.6ml/L", Effectiveness: "High"},
		{PestName: "caterpillar", PesticideName: "Indoxacarb", ApplicationRate: "2ml/L", Effectiveness: "High"},
		{PestName: "beetle", PesticideName: "Carbaryl", ApplicationRate: "2g/L", Effectiveness: "Medium"},
		{PestName: "beetle", PesticideName: "Permethrin", ApplicationRate: "2ml/L", Effectiveness: "High"},
		{PestName: "beetle", PesticideName: "Lambda-cyhalothrin", ApplicationRate: "1ml/L", Effectiveness: "High"},
		{PestName: "mite", PesticideName: "Abamectin", ApplicationRate: "1.9ml/L", Effectiveness: "High"},
		{PestName: "mite", PesticideName: "Hexythiazox", ApplicationRate: "1.5ml/L", Effectiveness: "Medium"},
		{PestName: "mite", PesticideName: "Propargite", ApplicationRate: "2ml/L", Effectiveness: "Medium"},
		{PestName: "leafhopper", PesticideName: "Imidacloprid", ApplicationRate: "0.5ml/L", Effectiveness: "High"},
		{PestName: "leafhopper", PesticideName: "Deltamethrin", ApplicationRate: "1ml/L", Effectiveness: "High"},
		{PestName: "leafhopper", PesticideName: "Cypermethrin", ApplicationRate: "1ml/L", Effectiveness: "High"},
		{PestName: "scale", PesticideName: "Spirotetramat", ApplicationRate: "1ml/L", Effectiveness: "Medium"},
		{PestName: "scale", PesticideName: "Buprofezin", ApplicationRate: "2ml/L", Effectiveness: "Medium"},
		{PestName: "scale", PesticideName: "Dinotefuran", ApplicationRate: "0.6ml/L", Effectiveness: "High"},
		{PestName: "borer", PesticideName: "Chlorantraniliprole", ApplicationRate: "0.6ml/L", Effectiveness: "High"},
		{PestName: "borer", PesticideName: "Fipronil", ApplicationRate: "2ml/L", Effectiveness: "High"},
		{PestName: "borer", PesticideName: "Cartap hydrochloride", ApplicationRate: "2g/L", Effectiveness: "Medium"},
		{PestName: "weevil", PesticideName: "Imidacloprid", ApplicationRate: "0.5ml/L", Effectiveness: "High"},
		{PestName: "weevil", PesticideName: "Chlorpyrifos", ApplicationRate: "2ml/L", Effectiveness: "Medium"},
		{PestName: "weevil", PesticideName: "Thiamethoxam", ApplicationRate: "0.3g/L", Effectiveness: "High"},
		{PestName: "armyworm", PesticideName: "Spinetoram", ApplicationRate: "0.45ml/L", Effectiveness: "High"},
		{PestName: "armyworm", PesticideName: "Emamectin benzoate", ApplicationRate: "0.5g/L", Effectiveness: "High"},
		{PestName: "bollworm", PesticideName: "Flubendiamide", ApplicationRate: "2.5ml/L", Effectiveness: "High"},
		{PestName: "bollworm", PesticideName: "Chlorantraniliprole", ApplicationRate: "0.6ml/L", Effectiveness: "High"},
	}
}
