package fieldmap

// FSMTemplateName is the file name of the amended FSM passport application.
const FSMTemplateName = "AmendedPassportApplication0001.pdf"

func text(f Field, id string, x, y, w float64) Entry {
	return Entry{
		Field: f,
		Kind:  Text,
		Mode:  Coordinate,
		ID:    id,
		Pos:   Pos{X: x, Y: y, MaxWidth: w},
	}
}

func check(f Field, id string) Entry {
	return Entry{Field: f, Kind: Check, Mode: Named, ID: id}
}

var fsmEntries = []Entry{
	check(TypeOrdinary, "checkbox_57vsoy"),
	check(TypeOfficial, "checkbox_58wedn"),
	check(TypeDiplomatic, "checkbox_59dkvd"),

	text(LastName, "text_4dr", 77, 599, 152),
	text(MiddleName, "text_5fxkb", 247, 599, 76),
	text(FirstName, "text_6hhxt", 351, 598, 194),
	text(OtherNames, "text_7dgxt", 149, 572, 372),
	text(DateOfBirth, "text_8xrso", 93, 552, 98),

	check(GenderMiss, "checkbox_9pcgj"),
	check(GenderMrs, "checkbox_10ofjy"),
	check(GenderMs, "checkbox_11nykb"),
	check(GenderMr, "checkbox_12bgnn"),

	text(HeightFeet, "text_13dmem", 73, 536, 69),
	text(HeightInches, "text_14ztbi", 160, 536, 45),
	text(HairColor, "text_15nyre", 315, 535, 69),
	text(EyeColor, "text_16zwtt", 455, 534, 69),
	text(BirthPlace, "text_17riyf", 85, 518, 111),
	text(HomeAddress, "text_18yvor", 260, 517, 350),
	text(PostalAddress, "text_19jyai", 127, 499, 480),
	text(Email, "text_20rpfr", 101, 481, 220),
	text(Phone, "text_21jjfw", 415, 479, 112),

	check(PrevPassportYes, "checkbox_22tiap"),
	check(PrevPassportNo, "checkbox_23fwdg"),
	text(PrevPassportDetails, "text_24gggs", 245, 443, 279),
	check(ConvictedYes, "checkbox_25rhay"),
	check(ConvictedNo, "checkbox_26eogu"),
	text(ConvictedExplain, "text_27aisj", 326, 422, 220),
	check(NameChangedYes, "checkbox_28tuog"),
	check(NameChangedNo, "checkbox_29gksj"),
	text(NameChangedExplain, "text_30qonh", 286, 405, 220),

	check(CitizenBirth, "checkbox_31jsom"),
	check(CitizenNaturalization, "checkbox_32jfzk"),
	check(CitizenOther, "checkbox_33dzyn"),

	text(FatherLast, "text_34cbed", 83, 352, 138),
	text(FatherFirst, "text_35hipi", 265, 351, 138),
	text(FatherMiddle, "text_36sfdl", 452, 349, 98),
	text(FatherBirthDate, "text_37ygil", 79, 333, 98),
	text(FatherBirthPlace, "text_38aamz", 239, 332, 152),
	text(FatherNationality, "text_39itps", 118, 314, 287),
	check(FatherCitizenYes, "checkbox_40bibe"),
	check(FatherCitizenNo, "checkbox_41dyyt"),

	text(MotherLast, "text_42mpe", 84, 278, 138),
	text(MotherFirst, "text_45ckjq", 267, 277, 138),
	text(MotherMiddle, "text_47adok", 454, 275, 98),
	text(MotherBirthDate, "text_43homt", 80, 260, 98),
	text(MotherBirthPlace, "text_46rrwr", 237, 259, 152),
	text(MotherNationality, "text_44eexj", 119, 242, 287),
	check(MotherCitizenYes, "checkbox_48tvnn"),
	check(MotherCitizenNo, "checkbox_49btqb"),
}

// FSM returns the registry for the amended FSM passport application. Text is
// drawn at fixed coordinates on page 1; checkboxes are resolved by widget name.
func FSM() *Registry {
	r, err := New(FSMTemplateName, 1, fsmEntries...)
	if err != nil {
		panic(err)
	}
	return r
}
