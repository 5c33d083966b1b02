package catalog

// DefaultNote is the SAP note the built-in catalog is tied to.
const DefaultNote = "2480067"

// DefaultVersion is bumped whenever the built-in entry list changes.
const DefaultVersion = "1.0.0"

// reports migrated to Document and Reporting Compliance (DRC) per SAP Note 2480067.
// Order matters only for tie-breaks between entries matching at the same offset.
var note2480067 = []string{
	"/ATL/PCN874", "/BGLOCS/FI_AA_TAX_DEPR", "/BGLOCS/FI_CFS", "/BGLOCS/FI_FIXASSREP01",
	"/BGLOCS/FI_RFASLD20", "/CCEE/HRFI_EC_TAX", "/CCEE/HRFI_RFUVDE00", "/CCEE/HR_GL_ACCOUNT_STATEMENT",
	"/CCEE/HR_OPZ_STAT_1", "/CCEE/ROFI_394_2016", "/CCEE/ROFIRFUVDE2017", "/CCEE/ROFI_VIES_390_XML",
	"/CCEE/ROFITRIAL", "/CCEE/RO_ACHART", "/CCEE/RSFIAA_TAX_DEPR_GROUP", "/CCEE/SIFIDDV1",
	"/CCEE/SIFI_EXPORT_GL_LINE", "/CCEE/SIFI_KRD", "/CCEE/SIFI_POBOTI1", "/CCEE/SIFI_POBOTI3",
	"/CCEE/SIFI_RFASLM00_SI", "/CCEE/SIFI_SFR", "/SAPTR/KDVBaBs", "CL_WHT_AT", "CO_WHT_INCOME_DCL",
	"CO_WHT_VAT_DCL", "FITR_INVTRY", "FOT_B2A_ADMIN", "J_1AFONR", "J_1AF205", "J_1AF217", "J_1AF317",
	"J_1GCL000", "J_1GFPAREPORT", "J_1GGL000", "J_1GTBDE0", "J_1GTBGL0", "J_1GTBKR0", "J_1GVL000",
	"J_3RFFORM4", "J_3RF_BUY_BOOK_03", "J_3RF_REGISTERS", "J_3RF_REGINV", "J_3RF_SELL_BOOK_02",
	"J_3RF_TAX_REPORT", "J_3RF_TAX_XML_EXPORT", "J_3RF_VAT_CLARIF_REQUEST", "J_3RM_RN_OPERATIONS",
	"J_3RVATDECL", "J_3R_PTAX_DECL", "J_3R_TTAX_DECL", "J_CL_BALANCE_SHEET", "RAIDSG_CAP_ALLOW",
	"RAIDSG_CAP_RETIRE", "RAITAR01", "RAITAR02", "RAIDIT_DEPR", "RFASLD02", "RFASLD11B", "RFASLD12",
	"RFASLD15", "RFASLD20", "RFBILA00", "RFCLLIB01", "RFCLLIB01_PE", "RFCLLIB02", "RFCLLIB03_PE",
	"RFCLLIB04_PE", "RFGLKR00", "RFIDHU_AUDIT_REPORT", "RFIDHU_DSP", "RFIDMXFORMAT29", "RFIDPL07",
	"RFIDPL10", "RFIDPL15", "RFIDYYWT", "RFITEMAR_NO", "RFITEMAP_NO", "RFITEMGL_NO", "RFQSCI01",
	"RFUMSV00", "RFUMSV45R", "RFUMSV49R", "RFUSVB10", "RFUTAX00", "RFUVDE00", "RFVEPBOOK", "RFVESBOOK",
	"RPFIEG_TXCLR", "RPFIEG_TXREM", "RPFIFR_OVERDUE_INV", "RPFIGLMX_AUXACCOUNTING", "RPFIGLMX_EACCOUNTING",
	"RPFIGLMX_JE_DETAILS", "RPFIKZ_VATRET", "RPFISKEVAT", "RPFIWTAR_SIRE_SICORE", "RPFIWTIT_CU",
	"RPFIWTQA_TAXR", "RPFIWTSA_CERT", "RPFIWTIN_QRETURNS", "RPFIAAPT_MAPAS_FISCAIS", "RPFIMY_GST",
	"TRIVAT", "TRSLIST",
}

// Default returns the built-in SAP Note 2480067 catalog.
func Default() *Catalog {
	c, err := New(DefaultNote, DefaultVersion, note2480067)
	if err != nil {
		panic("catalog: invalid built-in catalog: " + err.Error())
	}
	return c
}
